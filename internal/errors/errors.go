// Package errors defines application-specific error types and sentinel errors.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions.
var (
	// ErrNotInitialized is returned for operations on a ring that was
	// never constructed through New or has already been closed.
	ErrNotInitialized = errors.New("ring is not initialized")

	// ErrInvalidCapacity is returned when a ring is constructed with a
	// non-positive capacity.
	ErrInvalidCapacity = errors.New("ring capacity must be positive")

	// ErrTooLarge is returned when a non-blocking request exceeds the
	// total ring capacity and therefore can never succeed, regardless of
	// current occupancy.
	ErrTooLarge = errors.New("request exceeds ring capacity")

	// ErrWouldBlock is the base error for non-blocking operations that
	// cannot currently be satisfied. Such failures are all-or-nothing:
	// the ring state is left untouched.
	ErrWouldBlock = errors.New("operation would block")

	// ErrInsufficientSpace and ErrInsufficientData narrow ErrWouldBlock
	// to the write and read side respectively. Both satisfy
	// errors.Is(err, ErrWouldBlock).
	ErrInsufficientSpace = fmt.Errorf("%w: insufficient space", ErrWouldBlock)
	ErrInsufficientData  = fmt.Errorf("%w: insufficient data", ErrWouldBlock)
)

// OpError carries diagnostics for a failed ring operation.
type OpError struct {
	Op        string
	Requested int
	Available int
	Err       error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("ring error: op=%s requested=%d available=%d: %v",
		e.Op, e.Requested, e.Available, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

// Transient defines an interface for errors that can indicate whether
// retrying the operation later may succeed.
type Transient interface {
	error
	IsTransient() bool
}

// IsTransient checks if an error indicates a condition that can clear on
// its own, such as a non-blocking request racing a momentarily full or
// empty ring. Capacity violations and lifecycle errors are permanent.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var transient Transient
	if errors.As(err, &transient) {
		return transient.IsTransient()
	}

	return errors.Is(err, ErrWouldBlock)
}

// IsTransient reports whether the wrapped condition is retryable.
func (e *OpError) IsTransient() bool {
	return IsTransient(e.Err)
}
