package payment

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"dispatch/internal/pkg/errs"
)

// referenceAlphabet is Crockford base32, matching the track code convention
// of excluding characters that read ambiguously.
const referenceAlphabet = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

const referenceRandomLength = 10

func referencePrefix(t Type) string {
	switch t {
	case Refund:
		return "RF"
	case WalletTopUp:
		return "TPU"
	default:
		return "PAY"
	}
}

// NewReference generates a ledger reference such as "PAY-018F3C2A1B-7GK2MQPX9A":
// a type prefix, the creation time in hex milliseconds, and a random tail.
// The reference is generated exactly once per transaction and the store
// enforces its global uniqueness.
func NewReference(t Type, now time.Time) string {
	var sb strings.Builder
	sb.WriteString(referencePrefix(t))
	sb.WriteString(fmt.Sprintf("-%010X-", now.UnixMilli()))
	for range referenceRandomLength {
		sb.WriteByte(referenceAlphabet[rand.IntN(len(referenceAlphabet))]) //nolint:gosec // not a secret
	}
	return sb.String()
}

// ValidateReference checks the shape of an externally supplied reference.
func ValidateReference(reference string) error {
	if reference == "" {
		return errs.NewValueIsRequiredError("reference")
	}
	for _, prefix := range []string{"PAY-", "RF-", "TPU-"} {
		if strings.HasPrefix(reference, prefix) {
			return nil
		}
	}
	return errs.NewValueIsInvalidErrorWithCause("reference",
		fmt.Errorf("%q does not carry a known ledger prefix", reference))
}
