package services

import (
	"crypto/rand"
	"encoding/base64"
)

// publicTokenBytes is the entropy of a public access token. 32 random bytes
// encoded as URL-safe base64 give a 43-character unguessable string.
const publicTokenBytes = 32

// GeneratePublicToken returns an opaque token suitable for unauthenticated
// single-resource links (quotes, invoices, shared boards).
func GeneratePublicToken() (string, error) {
	raw := make([]byte, publicTokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}
