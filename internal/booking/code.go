package booking

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
)

const codeBytes = 4

// NewCode returns a short uppercase hexadecimal reservation code,
// e.g. "3FA2B91C". Uniqueness is backed by the index on the column;
// collisions at 4 random bytes are rare enough that the insert simply
// fails and the caller retries the request.
func NewCode() (string, error) {
	b := make([]byte, codeBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return strings.ToUpper(hex.EncodeToString(b)), nil
}
