package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
)

// tokenBytes is the amount of randomness behind each link token. 32 bytes
// gives 256 bits, well past the point where collisions or guessing matter;
// the database still carries a unique constraint as a backstop.
const tokenBytes = 32

// GenerateToken produces an opaque, URL-safe bearer token for a one-time
// link. The output carries no structure: nothing about the reading type or
// usage state can be recovered from it.
func GenerateToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate link token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// TokensEqual compares two tokens in constant time.
func TokensEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
