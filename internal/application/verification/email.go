package verification

import (
	"bytes"
	"html/template"
	"time"
)

const CodeEmailSubject = "Password Reset Verification Code"

var codeEmailTmpl = template.Must(template.New("code").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; border: 1px solid #e9e9e9; border-radius: 5px;">
  <h2 style="color: #333; text-align: center;">Your Verification Code</h2>
  <p style="color: #666; font-size: 16px; line-height: 1.5;">We received a request to reset your password. Please use the following code to verify your identity:</p>
  <div style="text-align: center; margin: 30px 0;">
    <div style="display: inline-block; padding: 15px 30px; background-color: #f5f5f5; border-radius: 5px; letter-spacing: 8px; font-size: 28px; font-weight: bold; color: #333;">{{.Code}}</div>
  </div>
  <p style="color: #666; font-size: 14px; line-height: 1.5;">This code will expire in {{.Minutes}} minutes. If you did not request a password reset, please ignore this email or contact support if you have concerns.</p>
  <p style="color: #999; font-size: 12px; text-align: center; margin-top: 30px;">This is an automated message, please do not reply.</p>
</div>
`))

func renderCodeEmail(c string, ttl time.Duration) (string, error) {
	var buf bytes.Buffer
	err := codeEmailTmpl.Execute(&buf, struct {
		Code    string
		Minutes int
	}{Code: c, Minutes: int(ttl.Minutes())})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
