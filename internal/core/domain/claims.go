package domain

import "time"

// Claims is the identity carried by a signed access token.
type Claims struct {
	AccountID int64
	Email     string
	Username  string
	App       string
	// TokenID is the unique jti, used as the revocation key.
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
