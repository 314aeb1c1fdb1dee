// Package common provides the UseCase/UnitOfWork infrastructure shared by
// every Player command. Successful mutations can only be produced by a
// UnitOfWork commit, which guarantees that the state change, its domain
// events and its audit record are written together and that post-commit
// listeners (claims cache invalidation) see only durable changes.
package common

// Result represents the outcome of a use case execution.
//
// The success constructor is unexported: only the UnitOfWork implementations
// in this package can create a successful Result.
type Result[T any] struct {
	value   T
	err     *UseCaseError
	success bool
}

func newSuccess[T any](value T) Result[T] {
	return Result[T]{value: value, success: true}
}

// Failure creates a failed result.
// Any code may return failures for validation errors, missing entities,
// conflicts and denials without going through UnitOfWork.
func Failure[T any](err *UseCaseError) Result[T] {
	return Result[T]{err: err}
}

// IsSuccess returns true if the result is successful.
func (r Result[T]) IsSuccess() bool {
	return r.success
}

// IsFailure returns true if the result is a failure.
func (r Result[T]) IsFailure() bool {
	return !r.success
}

// Value returns the success value.
// Should only be called after checking IsSuccess().
func (r Result[T]) Value() T {
	return r.value
}

// Error returns the error if the result is a failure, nil otherwise.
func (r Result[T]) Error() *UseCaseError {
	return r.err
}

// Err returns the failure as a plain error, or nil on success.
// Avoids the typed-nil trap when the caller wants an error interface value.
func (r Result[T]) Err() error {
	if r.success || r.err == nil {
		return nil
	}
	return r.err
}

// Map transforms a successful result's value using the provided function.
// If the result is a failure, it returns the failure unchanged.
func Map[T, U any](r Result[T], fn func(T) U) Result[U] {
	if r.IsFailure() {
		return Failure[U](r.err)
	}
	return newSuccess(fn(r.value))
}

// OrElse returns the success value or the provided default if failure.
func (r Result[T]) OrElse(defaultValue T) T {
	if r.IsSuccess() {
		return r.value
	}
	return defaultValue
}
