package imagecache

import (
	"context"
	"errors"
	"fmt"
)

// Failure kinds. Every failure delivered to a sink wraps exactly one of these.
var (
	ErrNetwork       = errors.New("network error")
	ErrDecode        = errors.New("decode error")
	ErrSourceMissing = errors.New("source missing")
)

// FetchError is a failed fetch for Key.
type FetchError struct {
	Kind error // ErrNetwork, ErrDecode or ErrSourceMissing
	Key  Key
	Err  error // underlying cause, may be nil
}

// NewFetchError creates a FetchError of the given kind.
func NewFetchError(kind error, key Key, err error) *FetchError {
	return &FetchError{Kind: kind, Key: key, Err: err}
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Key, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Key, e.Kind, e.Err)
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *FetchError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Retryable reports whether a new request may succeed where this one failed.
// Only network failures qualify; bad bytes and missing sources stay broken.
func Retryable(err error) bool {
	return errors.Is(err, ErrNetwork)
}

// Kind returns the failure kind of err, or nil if err is nil.
func Kind(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrSourceMissing):
		return ErrSourceMissing
	case errors.Is(err, ErrDecode):
		return ErrDecode
	default:
		return ErrNetwork
	}
}

// classify makes sure whatever a loader returned is a *FetchError for key.
// Errors without a kind (timeouts, transport errors) count as network failures.
func classify(key Key, err error) *FetchError {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return NewFetchError(ErrNetwork, key, err)
	}
	return NewFetchError(Kind(err), key, err)
}
