package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Signature headers attached to every delivery
const (
	HeaderSignature = "X-Signature"
	HeaderEvent     = "X-Event"
	HeaderWebhookID = "X-Webhook-Id"
)

// Sign computes the hex HMAC-SHA256 of the canonical payload bytes.
// The signature always covers the canonical JSON, even for
// destinations whose request body is reshaped afterwards.
func Sign(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks a received signature in constant time
func VerifySignature(secret string, payload []byte, signature string) bool {
	expected := Sign(secret, payload)
	return hmac.Equal([]byte(expected), []byte(signature))
}
