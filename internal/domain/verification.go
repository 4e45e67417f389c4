package domain

import (
	"strings"
	"time"
)

// VerificationRecord is the password-reset code issued for one email address.
// PK: email. A new issuance overwrites the previous record for the same email.
// All timestamps are Unix milliseconds.
type VerificationRecord struct {
	Email          string `json:"email" dynamodbav:"email"`
	Code           string `json:"-" dynamodbav:"code"`
	ExpirationTime int64  `json:"expirationTime" dynamodbav:"expirationTime"`
	Verified       bool   `json:"verified" dynamodbav:"verified"`
	VerifiedAt     *int64 `json:"verifiedAt,omitempty" dynamodbav:"verifiedAt,omitempty"`
	CreatedAt      int64  `json:"createdAt" dynamodbav:"createdAt"`
}

// ExpiredAt reports whether the record is no longer valid at t.
// The record is still valid at exactly its expiration instant.
func (r *VerificationRecord) ExpiredAt(t time.Time) bool {
	return t.UnixMilli() > r.ExpirationTime
}

// NormalizeEmail trims surrounding whitespace. Case is preserved.
func NormalizeEmail(email string) string {
	return strings.TrimSpace(email)
}
