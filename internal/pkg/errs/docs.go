// Package errs provides standardized error types for the shipment tracking
// application.
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g. ErrObjectNotFound) for errors.Is checks
//   - A struct type carrying the error details
//   - Constructor functions with and without an underlying cause
//   - Error() for formatting and Unwrap() for error-chain support
//
// The taxonomy distinguishes recoverable outcomes (ErrDuplicateRecord is an
// idempotent success path for offline replays, ErrConcurrentUpdate asks the
// caller to re-read and retry) from hard failures surfaced as-is.
package errs
