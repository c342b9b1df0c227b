package payment

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// Domain errors for transaction operations.
var (
	// ErrTransactionIsNotConstructed is returned when a Transaction was not
	// created through NewTransaction or RestoreTransaction.
	ErrTransactionIsNotConstructed = errors.New(
		"Transaction must be created via NewTransaction or RestoreTransaction constructor")
	// ErrTransactionIsFinal is returned when changing the money fields of a
	// transaction whose outcome is already decided.
	ErrTransactionIsFinal = errors.New("transaction outcome is decided and amounts are frozen")
	// ErrFeeExceedsAmount is returned when the platform fee is larger than
	// the transaction amount.
	ErrFeeExceedsAmount = errors.New("platform fee exceeds transaction amount")
)

// Transaction is one entry in the settlement ledger.
//
// Invariants:
//   - The reference is generated once at initiation and never changes;
//     the store rejects a duplicate reference as a conflict
//   - Status moves monotonically: pending, processing, then a decided
//     outcome; refunded is reachable only from completed
//   - Net is always amount minus platform fee and is recomputed whenever
//     either input changes; inputs freeze once the outcome is decided
type Transaction struct {
	id          kernel.UUID
	reference   string
	orderID     *kernel.UUID
	payerID     kernel.UUID
	payeeID     kernel.UUID
	txType      Type
	method      Method
	status      Status
	amount      kernel.Money
	platformFee kernel.Money
	net         kernel.Money
	gatewayRef  string
	authCode    string
	initiatedAt time.Time
	decidedAt   *time.Time

	guard guard.ConstructorGuard
}

// NewTransaction creates a pending ledger entry with a freshly generated
// reference. orderID is nil for wallet-only operations.
func NewTransaction(
	id kernel.UUID,
	orderID *kernel.UUID,
	payerID, payeeID kernel.UUID,
	txType Type,
	method Method,
	amount, platformFee kernel.Money,
	now time.Time,
) (*Transaction, error) {
	t := &Transaction{
		reference:   NewReference(txType, now),
		status:      Pending,
		initiatedAt: now,
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		t.setParties(id, orderID, payerID, payeeID),
		txType.Validate(),
		method.Validate(),
	); err != nil {
		return nil, err
	}
	if now.IsZero() {
		return nil, errs.NewValueIsRequiredError("now")
	}

	t.txType = txType
	t.method = method
	if err := t.setAmounts(amount, platformFee); err != nil {
		return nil, err
	}

	return t, nil
}

// RestoreTransaction reconstructs a Transaction from persistent storage.
// The stored net amount is recomputed rather than trusted.
func RestoreTransaction(
	id kernel.UUID,
	reference string,
	orderID *kernel.UUID,
	payerID, payeeID kernel.UUID,
	txType Type,
	method Method,
	status Status,
	amount, platformFee kernel.Money,
	gatewayRef, authCode string,
	initiatedAt time.Time,
	decidedAt *time.Time,
) (*Transaction, error) {
	t := &Transaction{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		t.setParties(id, orderID, payerID, payeeID),
		ValidateReference(reference),
		txType.Validate(),
		method.Validate(),
		status.Validate(),
	); err != nil {
		return nil, err
	}
	if initiatedAt.IsZero() {
		return nil, errs.NewValueIsRequiredError("initiatedAt")
	}

	t.reference = reference
	t.txType = txType
	t.method = method
	t.status = status
	if err := t.setAmounts(amount, platformFee); err != nil {
		return nil, err
	}
	t.gatewayRef = gatewayRef
	t.authCode = authCode
	t.initiatedAt = initiatedAt
	t.decidedAt = decidedAt

	return t, nil
}

// Validate ensures the Transaction was constructed through a constructor.
func (t *Transaction) Validate() error {
	if t == nil {
		return ErrTransactionIsNotConstructed
	}
	return t.guard.Validate(ErrTransactionIsNotConstructed)
}

// IsEqual compares two transactions by their unique identifiers.
func (t *Transaction) IsEqual(other *Transaction) bool {
	return other != nil && t.id.IsEqual(other.id)
}

// ID returns the transaction's unique identifier.
func (t *Transaction) ID() kernel.UUID {
	return t.id
}

// Reference returns the globally unique idempotency key.
func (t *Transaction) Reference() string {
	return t.reference
}

// OrderID returns the settled order's identifier, or nil for wallet-only
// operations.
func (t *Transaction) OrderID() *kernel.UUID {
	return t.orderID
}

// PayerID returns the paying party's identifier.
func (t *Transaction) PayerID() kernel.UUID {
	return t.payerID
}

// PayeeID returns the receiving party's identifier.
func (t *Transaction) PayeeID() kernel.UUID {
	return t.payeeID
}

// Type returns what this entry settles.
func (t *Transaction) Type() Type {
	return t.txType
}

// Method returns the settlement backend.
func (t *Transaction) Method() Method {
	return t.method
}

// Status returns the current settlement status.
func (t *Transaction) Status() Status {
	return t.status
}

// Amount returns the gross amount moved.
func (t *Transaction) Amount() kernel.Money {
	return t.amount
}

// PlatformFee returns the marketplace's cut.
func (t *Transaction) PlatformFee() kernel.Money {
	return t.platformFee
}

// Net returns amount minus platform fee.
func (t *Transaction) Net() kernel.Money {
	return t.net
}

// GatewayRef returns the external gateway's correlation id, if any.
func (t *Transaction) GatewayRef() string {
	return t.gatewayRef
}

// AuthCode returns the gateway authorization code, if any.
func (t *Transaction) AuthCode() string {
	return t.authCode
}

// InitiatedAt returns when the entry was created.
func (t *Transaction) InitiatedAt() time.Time {
	return t.initiatedAt
}

// DecidedAt returns when the outcome was decided, or nil.
func (t *Transaction) DecidedAt() *time.Time {
	return t.decidedAt
}

// ChangeAmounts replaces the gross amount and platform fee and recomputes
// the net amount. Rejected once the outcome is decided.
func (t *Transaction) ChangeAmounts(amount, platformFee kernel.Money) error {
	if t.status.IsFinal() {
		return ErrTransactionIsFinal
	}
	return t.setAmounts(amount, platformFee)
}

// MarkProcessing records that the method backend accepted the transaction.
// The gateway correlation id is stored when the backend supplied one.
func (t *Transaction) MarkProcessing(gatewayRef string) error {
	if err := t.transition(Processing); err != nil {
		return err
	}
	if gatewayRef != "" {
		t.gatewayRef = gatewayRef
	}
	return nil
}

// Complete records a successful money movement.
func (t *Transaction) Complete(authCode string, now time.Time) error {
	if err := t.transition(Completed); err != nil {
		return err
	}
	t.authCode = authCode
	t.decide(now)
	return nil
}

// Fail records a backend rejection.
func (t *Transaction) Fail(now time.Time) error {
	if err := t.transition(Failed); err != nil {
		return err
	}
	t.decide(now)
	return nil
}

// MarkRefunded records that a completed movement was reversed.
func (t *Transaction) MarkRefunded(now time.Time) error {
	if err := t.transition(Refunded); err != nil {
		return err
	}
	t.decide(now)
	return nil
}

// Cancel withdraws a transaction whose outcome is not decided yet.
func (t *Transaction) Cancel(now time.Time) error {
	if err := t.transition(Cancelled); err != nil {
		return err
	}
	t.decide(now)
	return nil
}

// AdvanceTo moves the status toward the requested one, used by gateway
// callbacks and polling reconciliation. A callback reporting the status the
// transaction already has is a no-op rather than an error.
func (t *Transaction) AdvanceTo(next Status, authCode string, now time.Time) error {
	if t.status == next {
		return nil
	}
	switch next {
	case Processing:
		return t.MarkProcessing("")
	case Completed:
		return t.Complete(authCode, now)
	case Failed:
		return t.Fail(now)
	case Refunded:
		return t.MarkRefunded(now)
	case Cancelled:
		return t.Cancel(now)
	default:
		return errs.NewInvalidTransitionError("transaction", t.status.String(), next.String())
	}
}

func (t *Transaction) transition(next Status) error {
	newStatus, err := t.status.TransitionTo(next)
	if err != nil {
		return err
	}
	t.status = newStatus
	return nil
}

func (t *Transaction) decide(now time.Time) {
	stamp := now
	t.decidedAt = &stamp
}

func (t *Transaction) setParties(id kernel.UUID, orderID *kernel.UUID, payerID, payeeID kernel.UUID) error {
	if err := errors.Join(id.Validate(), payerID.Validate(), payeeID.Validate()); err != nil {
		return err
	}
	if orderID != nil {
		if err := orderID.Validate(); err != nil {
			return err
		}
	}
	t.id = id
	t.orderID = orderID
	t.payerID = payerID
	t.payeeID = payeeID
	return nil
}

func (t *Transaction) setAmounts(amount, platformFee kernel.Money) error {
	net, err := amount.Sub(platformFee)
	if err != nil {
		return ErrFeeExceedsAmount
	}
	t.amount = amount
	t.platformFee = platformFee
	t.net = net
	return nil
}
