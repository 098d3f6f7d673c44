package crypto

import (
	"crypto/sha256"
	"encoding/hex"
)

// Sha256Hex returns the hex-encoded SHA-256 digest of input. Cache key
// builders use it so raw bearer tokens never appear in key names or logs.
func Sha256Hex(input string) string {
	hasher := sha256.New()
	// hash.Hash.Write is documented to never fail.
	_, _ = hasher.Write([]byte(input)) //nolint:errcheck
	return hex.EncodeToString(hasher.Sum(nil))
}
