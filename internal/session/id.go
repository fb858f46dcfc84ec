package session

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"strings"
)

var idEncoding = base32.NewEncoding("abcdefghijklmnopqrstuvwxyz234567").WithPadding(base32.NoPadding)

// GenerateID generates a cryptographically secure session ID.
// 25 bytes = 200 bits of entropy, 40 lower-case base32 characters.
func GenerateID() (string, error) {

	const size = 25

	b := make([]byte, size)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("session: failed to generate id: %w", err)
	}

	return idEncoding.EncodeToString(b), nil

}

// ValidID reports whether id could have come from GenerateID. Cookies
// failing this never reach the store.
func ValidID(id string) bool {
	if len(id) != 40 {
		return false
	}
	return strings.Trim(id, "abcdefghijklmnopqrstuvwxyz234567") == ""
}
