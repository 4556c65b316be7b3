// Package errs provides standardized error types for the mailroom service.
//
// Every error type follows the same shape:
//   - a sentinel error variable (e.g., ErrObjectNotFound) used with errors.Is
//   - a struct carrying the details needed to render an actionable message
//   - constructors with and without a cause
//   - Unwrap returning the sentinel so callers can classify without type assertions
//
// Domain packages declare their own errors in the same shape (see
// pkgnumber.PoolExhaustedError and parcel.InvalidTransitionError).
package errs
