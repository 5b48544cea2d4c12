package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/Eugen9719/test-pay-service/internal/domain"
)

// Verifier checks that a webhook notification was produced by the payment
// provider holding the shared secret.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Sign computes the HMAC-SHA256 signature over the notification fields,
// excluding the signature itself. Exposed so clients and tests can produce
// valid payloads.
func (v *Verifier) Sign(n *domain.WebhookRequest) string {
	return hex.EncodeToString(v.digest(n))
}

// Verify compares the claimed signature against the expected one in constant
// time. A malformed signature never matches.
func (v *Verifier) Verify(n *domain.WebhookRequest) bool {
	claimed, err := hex.DecodeString(n.Signature)
	if err != nil {
		return false
	}
	return hmac.Equal(claimed, v.digest(n))
}

func (v *Verifier) digest(n *domain.WebhookRequest) []byte {
	mac := hmac.New(sha256.New, v.secret)
	fmt.Fprintf(mac, "%s:%d:%d:%d", n.TransactionID, n.AccountID, n.UserID, n.Amount)
	return mac.Sum(nil)
}
