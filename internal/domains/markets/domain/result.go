package domain

import "errors"

// ErrNoPayload is reported by a failed Result built without a cause.
var ErrNoPayload = errors.New("upstream returned no payload")

// Result is the outcome of one upstream fetch: a payload or a failure, never both.
type Result[T any] struct {
	value T
	err   error
}

// Ok wraps a successful payload.
func Ok[T any](value T) Result[T] {
	return Result[T]{value: value}
}

// Fail wraps a failure. A nil cause is replaced by ErrNoPayload.
func Fail[T any](err error) Result[T] {
	if err == nil {
		err = ErrNoPayload
	}
	return Result[T]{err: err}
}

// Value returns the payload and whether the fetch succeeded.
func (r Result[T]) Value() (T, bool) {
	return r.value, r.err == nil
}

// Err returns the failure cause, or nil on success.
func (r Result[T]) Err() error { return r.err }

// OK reports whether the result carries a payload.
func (r Result[T]) OK() bool { return r.err == nil }
