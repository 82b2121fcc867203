package models

import "time"

// MagicToken defines one passwordless access token based on the
// 'magic_tokens' table. A token is valid only while unused and unexpired;
// issuing a new token for an email marks any previously unused token for
// that email as used, so at most one link per email can ever verify.
type MagicToken struct {
	ID        int64     `json:"id" db:"id" example:"1"`          // Unique identifier for the token row
	Email     string    `json:"email" db:"email"`                // Email the token was issued for
	Token     string    `json:"-" db:"token"`                    // Opaque high-entropy token string; never serialized
	ExpiresAt time.Time `json:"expiresAt" db:"expires_at"`       // Hard expiry; tokens are never valid past this
	Used      bool      `json:"used" db:"used"`                  // Consumed by verification or superseded by a fresher token
	CreatedAt time.Time `json:"createdAt" db:"created_at"`       // Issuance time
}
