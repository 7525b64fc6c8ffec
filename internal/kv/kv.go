package kv

import (
	"context"
	"errors"
)

// ErrUnavailable wraps every I/O-level failure reported by a provider.
var ErrUnavailable = errors.New("kv provider unavailable")

// Provider is durable string storage addressed by key.
//
// Get reports found=false (and no error) when the key has never been set.
type Provider interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
}

// UpdateFunc receives the current value of a key and returns the value to
// store. Returning an error aborts the update without writing.
type UpdateFunc func(current string, found bool) (string, error)

// Updater is implemented by providers that can run a read-modify-write
// cycle atomically with respect to other writers of the same key.
type Updater interface {
	Update(ctx context.Context, key string, fn UpdateFunc) error
}

// Unavailable wraps err with ErrUnavailable unless it already is one.
func Unavailable(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrUnavailable) {
		return err
	}
	return &opError{op: op, err: err}
}

type opError struct {
	op  string
	err error
}

func (e *opError) Error() string { return e.op + ": " + e.err.Error() }

func (e *opError) Unwrap() []error { return []error{ErrUnavailable, e.err} }
