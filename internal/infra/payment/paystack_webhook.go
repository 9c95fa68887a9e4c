package payment

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
)

// VerifyWebhookSignature checks the x-paystack-signature header: an
// HMAC-SHA512 hex digest of the raw request body keyed with the webhook
// secret. The raw bytes must be used, never a re-serialized form.
// Comparison is constant time.
func VerifyWebhookSignature(secret string, body []byte, signature string) bool {
	if secret == "" || signature == "" {
		return false
	}
	h := hmac.New(sha512.New, []byte(secret))
	h.Write(body)
	expected := hex.EncodeToString(h.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
