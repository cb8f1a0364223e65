package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashContent returns a hex sha256 of the given content. It is used to
// detect whether a letter's body changed since its artifact was rendered.
func HashContent(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
