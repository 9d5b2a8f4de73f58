package domain

import "time"

// TokenPair is what the token endpoint returns.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	Scope        string `json:"scope,omitempty"`
}

// RefreshToken is the stored record. Only the fingerprint of the opaque
// token is persisted.
type RefreshToken struct {
	ID        string    `db:"id"`
	TenantID  string    `db:"tenant_id"`
	UserID    string    `db:"user_id"`
	TokenHash string    `db:"token_hash"`
	SessionID string    `db:"session_id"`
	AMR       string    `db:"amr"`
	ExpiresAt time.Time `db:"expires_at"`
	Revoked   bool      `db:"revoked"`
	CreatedAt time.Time `db:"created_at"`
}

// MFAEnrollment is returned when a user starts TOTP enrollment.
type MFAEnrollment struct {
	Secret     string `json:"secret"`
	OTPAuthURL string `json:"otpauth_url"`
}
