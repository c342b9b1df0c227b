package order

import (
	"math/rand/v2"
	"strings"
)

// trackCodeAlphabet excludes ambiguous characters (I, L, O, U, 0, 1) so codes
// survive being read over the phone.
const trackCodeAlphabet = "ABCDEFGHJKMNPQRSTVWXYZ23456789"

const trackCodeLength = 10

// NewTrackCode generates a customer-facing tracking code, e.g. "TRK-7GK2MQPX9A".
// Codes are random, not sequential; uniqueness is enforced by the order store.
func NewTrackCode() string {
	var sb strings.Builder
	sb.WriteString("TRK-")
	for range trackCodeLength {
		sb.WriteByte(trackCodeAlphabet[rand.IntN(len(trackCodeAlphabet))]) //nolint:gosec // not a secret
	}
	return sb.String()
}
