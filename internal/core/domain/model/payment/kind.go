package payment

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Type classifies what a ledger entry settles.
type Type int

const (
	TypeUnknown Type = iota

	// OrderPayment is the customer's payment for a delivery order.
	OrderPayment

	// PlatformFee is the marketplace's cut of an order payment.
	PlatformFee

	// CourierPayout is the courier's share of a delivered order.
	CourierPayout

	// Refund reverses a previously completed order payment.
	Refund

	// WalletTopUp credits a user's prepaid balance.
	WalletTopUp
)

func getTypeStrings() map[Type]string {
	return map[Type]string{
		TypeUnknown:   "unknown",
		OrderPayment:  "order_payment",
		PlatformFee:   "platform_fee",
		CourierPayout: "courier_payout",
		Refund:        "refund",
		WalletTopUp:   "wallet_topup",
	}
}

// TypeFromString parses a transaction type from its wire representation.
func TypeFromString(s string) (Type, error) {
	for t, str := range getTypeStrings() {
		if str == s && t != TypeUnknown {
			return t, nil
		}
	}
	return TypeUnknown, errs.NewValueIsInvalidErrorWithCause("type",
		fmt.Errorf("%q is not a valid transaction type", s))
}

// Validate checks if the Type value is one of the defined types.
func (t Type) Validate() error {
	if _, ok := getTypeStrings()[t]; !ok || t == TypeUnknown {
		return errs.NewValueIsInvalidErrorWithCause("type",
			fmt.Errorf("%d is not a valid type", t))
	}
	return nil
}

// String returns the wire name of the type.
// This method implements the fmt.Stringer interface.
func (t Type) String() string {
	if str, ok := getTypeStrings()[t]; ok {
		return str
	}
	return "unknown"
}

// Method identifies the settlement backend a transaction runs through.
type Method int

const (
	MethodUnknown Method = iota

	// Card settles through the external payment gateway.
	Card

	// Wallet settles against the payer's prepaid balance.
	Wallet

	// Cash settles on handover and only needs an acknowledgment.
	Cash
)

func getMethodStrings() map[Method]string {
	return map[Method]string{
		MethodUnknown: "unknown",
		Card:          "card",
		Wallet:        "wallet",
		Cash:          "cash",
	}
}

// MethodFromString parses a payment method from its wire representation.
func MethodFromString(s string) (Method, error) {
	for m, str := range getMethodStrings() {
		if str == s && m != MethodUnknown {
			return m, nil
		}
	}
	return MethodUnknown, errs.NewValueIsInvalidErrorWithCause("method",
		fmt.Errorf("%q is not a valid payment method", s))
}

// Validate checks if the Method value is one of the defined methods.
func (m Method) Validate() error {
	if _, ok := getMethodStrings()[m]; !ok || m == MethodUnknown {
		return errs.NewValueIsInvalidErrorWithCause("method",
			fmt.Errorf("%d is not a valid method", m))
	}
	return nil
}

// String returns the wire name of the method.
// This method implements the fmt.Stringer interface.
func (m Method) String() string {
	if str, ok := getMethodStrings()[m]; ok {
		return str
	}
	return "unknown"
}
