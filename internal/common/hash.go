package common

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Sha256Hex returns the SHA-256 digest of the input encoded as lowercase hex.
func Sha256Hex(input string) string {
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])
}

// HMACSha256Hex returns the hex-encoded HMAC-SHA256 of the payload.
func HMACSha256Hex(secret, payload []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// HMACEqual compares a presented signature with the expected HMAC in constant
// time.
func HMACEqual(secret, payload []byte, signature string) bool {
	expected := HMACSha256Hex(secret, payload)
	return hmac.Equal([]byte(expected), []byte(signature))
}
