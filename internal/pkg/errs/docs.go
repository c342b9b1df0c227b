// Package errs provides standardized error types for the dispatch core.
// It implements a consistent pattern for error creation, formatting, and
// unwrapping that is used throughout the application.
//
// The package includes error types for generic validation scenarios
// (ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError,
// ObjectNotFoundError) and for the dispatch error surface exposed to
// inbound callers (InvalidTransitionError, ConflictError,
// PaymentFailedError, DownstreamTimeoutError, plus the
// ErrNoCourierAvailable and ErrInsufficientBalance sentinels).
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method returning the sentinel, so callers classify with
//     errors.Is rather than string matching
//
// Inbound transport adapters map the sentinels one-to-one onto status codes;
// nothing in the core inspects error strings.
package errs
