package dynamo

// DynamoDB attribute names used in keys and expressions.
// Using constants prevents silent runtime bugs caused by key typos.
const (
	fieldEmail          = "email"
	fieldExpirationTime = "expirationTime"
	fieldVerified       = "verified"
	fieldVerifiedAt     = "verifiedAt"

	fieldUserID       = "user_id"
	fieldPasswordHash = "password_hash"
	fieldUpdatedAt    = "updated_at"

	emailIndex = "email-index"
)
