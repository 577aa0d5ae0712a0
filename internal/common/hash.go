package common

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
)

// SHA256Hex returns the hex-encoded SHA-256 digest of s.
func SHA256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// FileSHA256 fingerprints the file content. When the file cannot be read the
// digest of the path itself is returned so callers still get a stable key.
func FileSHA256(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return SHA256Hex(path)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return SHA256Hex(path)
	}
	return hex.EncodeToString(h.Sum(nil))
}
