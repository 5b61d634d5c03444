package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	"communityhub/internal/domain"
)

type hmacVerifier struct {
	secret []byte
}

// NewHMACVerifier returns a CallbackVerifier that recomputes
// HMAC-SHA256(secret, orderID + "|" + paymentID) and compares it against the
// hex-encoded signature in constant time.
func NewHMACVerifier(secret string) domain.CallbackVerifier {
	return &hmacVerifier{secret: []byte(secret)}
}

// Verify returns false on any malformed input and never returns an error:
// callers must treat false identically to "reject the callback" regardless
// of cause.
func (v *hmacVerifier) Verify(orderID, paymentID, signature string) bool {
	if len(v.secret) == 0 || orderID == "" || paymentID == "" || signature == "" {
		return false
	}
	provided, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(orderID + "|" + paymentID))
	return hmac.Equal(mac.Sum(nil), provided)
}
