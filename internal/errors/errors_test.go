package errors

import (
	"errors"
	"testing"
)

func TestSentinelErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotInitialized", ErrNotInitialized},
		{"ErrInvalidCapacity", ErrInvalidCapacity},
		{"ErrTooLarge", ErrTooLarge},
		{"ErrWouldBlock", ErrWouldBlock},
		{"ErrInsufficientSpace", ErrInsufficientSpace},
		{"ErrInsufficientData", ErrInsufficientData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err == nil {
				t.Errorf("%s should not be nil", tt.name)
			}
			if tt.err.Error() == "" {
				t.Errorf("%s should have an error message", tt.name)
			}
		})
	}
}

func TestWouldBlockWrapping(t *testing.T) {
	if !errors.Is(ErrInsufficientSpace, ErrWouldBlock) {
		t.Error("ErrInsufficientSpace should wrap ErrWouldBlock")
	}
	if !errors.Is(ErrInsufficientData, ErrWouldBlock) {
		t.Error("ErrInsufficientData should wrap ErrWouldBlock")
	}
	if errors.Is(ErrInsufficientSpace, ErrInsufficientData) {
		t.Error("space and data sentinels should be distinct")
	}
}

func TestOpError(t *testing.T) {
	opErr := &OpError{
		Op:        "try_write",
		Requested: 16,
		Available: 4,
		Err:       ErrInsufficientSpace,
	}

	if opErr.Error() == "" {
		t.Error("OpError should have an error message")
	}

	if !errors.Is(opErr, ErrInsufficientSpace) {
		t.Error("OpError should wrap ErrInsufficientSpace")
	}

	if !errors.Is(opErr, ErrWouldBlock) {
		t.Error("OpError should unwrap through to ErrWouldBlock")
	}
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"would block", ErrWouldBlock, true},
		{"insufficient space", ErrInsufficientSpace, true},
		{"insufficient data", ErrInsufficientData, true},
		{"too large", ErrTooLarge, false},
		{"not initialized", ErrNotInitialized, false},
		{"op error wrapping space", &OpError{Op: "try_write", Err: ErrInsufficientSpace}, true},
		{"op error wrapping too large", &OpError{Op: "try_read", Err: ErrTooLarge}, false},
		{"unrelated", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTransient(tt.err); got != tt.want {
				t.Errorf("IsTransient() = %v, want %v", got, tt.want)
			}
		})
	}
}
