package otp

import (
	"errors"
	"fmt"
)

// Closed set of failure kinds so handlers branch on the kind instead of on
// message text.
var (
	// ErrEmailRequired means the issue request carried no usable email.
	ErrEmailRequired = errors.New("valid email is required")
	// ErrFieldsRequired means a verify request was missing email or code.
	ErrFieldsRequired = errors.New("email and otp are required")
	// ErrNoRecord means no code was ever issued for the email, or the
	// lookup could not produce one.
	ErrNoRecord = errors.New("no otp on record")
	// ErrMismatch means the submitted code differs from the latest issued one.
	ErrMismatch = errors.New("otp does not match")
	// ErrExpired means the latest code matched but its validity window passed.
	ErrExpired = errors.New("otp has expired")
)

// StorageError wraps a failed store round trip.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("otp store %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// DeliveryError wraps a failed email send. The stored code stays valid even
// though the recipient never saw it.
type DeliveryError struct {
	Err error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("otp delivery: %v", e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }
