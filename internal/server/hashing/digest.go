package hashing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// KeyedDigest returns the hex HMAC-SHA256 of value under key.
func KeyedDigest(value, key string) string {
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(value))
	return hex.EncodeToString(mac.Sum(nil))
}

// DigestEqual compares two hex digests in constant time.
func DigestEqual(a, b string) bool {
	return hmac.Equal([]byte(a), []byte(b))
}
