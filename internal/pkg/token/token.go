package token

import (
	"crypto/rand"
	"encoding/base64"
)

// New returns a 256-bit random opaque token, URL-safe base64 encoded.
// Used for refresh tokens and password reset tokens.
func New() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
