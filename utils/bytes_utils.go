package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

func BytesToHex(bytes []byte) string {
	return hex.EncodeToString(bytes)
}

func SHA256(data []byte) []byte {
	digest := sha256.Sum256(data)
	return digest[:]
}

// Hex digest of the SHA-256 of data.
func SHA256Hex(data []byte) string {
	return BytesToHex(SHA256(data))
}

// HexHasLeadingZeros reports whether the hex digest starts with n '0' characters.
func HexHasLeadingZeros(digest string, n int) bool {
	if n <= 0 {
		return true
	}
	if n > len(digest) {
		return false
	}
	for i := 0; i < n; i++ {
		if digest[i] != '0' {
			return false
		}
	}
	return true
}
