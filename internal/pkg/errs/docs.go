// Package errs provides the typed errors shared by the marketplace core.
//
// Every error type follows the same shape:
//   - a sentinel variable (e.g. ErrValueIsRequired) usable with errors.Is
//   - a struct carrying the details (e.g. ValueIsRequiredError)
//   - constructors with and without a cause
//   - Error() for the message and Unwrap() returning the sentinel
//
// Generic kinds cover missing, invalid and out-of-range values and unknown
// objects. Business kinds cover the order lifecycle: invalid transitions, the
// revert window, assignment idempotency guards, optimistic-concurrency
// conflicts and agent wallet guards. Callers at the edge (HTTP) classify
// errors with errors.Is against the sentinels; anything that matches none of
// them is an infrastructure failure.
package errs
