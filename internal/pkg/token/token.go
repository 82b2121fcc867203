package token

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// EntropyBytes is the amount of random material behind each access token.
// Magic-link tokens are the only credential a student ever holds, so they
// must be infeasible to guess or enumerate.
const EntropyBytes = 64

// Generate returns an opaque, URL-safe access token backed by EntropyBytes
// of cryptographically secure randomness.
func Generate() (string, error) {
	buf := make([]byte, EntropyBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
