// Package payment contains the settlement ledger's domain model.
//
// A Transaction is one money movement between two parties: an order payment
// from the customer, the platform's fee, a courier payout, a refund, or a
// wallet top-up. Every transaction carries a globally unique reference that
// acts as an idempotency key: submitting the same reference twice is a
// conflict, never a silent merge.
//
// A Wallet holds a user's prepaid balance. Balance changes happen only
// together with ledger entry creation inside one storage transaction.
package payment
