package utils

import (
	"crypto/rand"
	"encoding/base64"
	"io"
)

// tokenBytes is the entropy of a CSRF token.
const tokenBytes = 32

// GenerateSecureToken creates a cryptographically secure random token.
func GenerateSecureToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(buf), nil
}
