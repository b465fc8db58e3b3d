package resource

import (
	"errors"
	"fmt"
)

// Sentinel errors matched by errors.Is against a *LoadError.
var (
	ErrNotFound = errors.New("resource not found")
	ErrDecode   = errors.New("resource decode failed")
	ErrIO       = errors.New("resource read failed")
)

// ErrorKind classifies a failed load.
type ErrorKind int

const (
	KindNotFound ErrorKind = iota
	KindDecode
	KindIO
)

// String returns the string representation of the error kind
func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "NotFound"
	case KindDecode:
		return "Decode"
	case KindIO:
		return "IO"
	default:
		return "Unknown"
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindNotFound:
		return ErrNotFound
	case KindDecode:
		return ErrDecode
	default:
		return ErrIO
	}
}

// LoadError is returned when a resource could not be loaded.
// Failed loads are never cached; calling GetOrLoad again retries.
type LoadError struct {
	Key  string
	Kind ErrorKind
	Err  error
}

func (e *LoadError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("failed to load %q: %s", e.Key, e.Kind.sentinel())
	}
	return fmt.Sprintf("failed to load %q: %s: %v", e.Key, e.Kind.sentinel(), e.Err)
}

// Unwrap exposes both the kind sentinel and the underlying cause.
func (e *LoadError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind.sentinel()}
	}
	return []error{e.Kind.sentinel(), e.Err}
}

// NotFoundError builds a LoadError of kind KindNotFound.
func NotFoundError(key string, err error) *LoadError {
	return &LoadError{Key: key, Kind: KindNotFound, Err: err}
}

// DecodeError builds a LoadError of kind KindDecode.
func DecodeError(key string, err error) *LoadError {
	return &LoadError{Key: key, Kind: KindDecode, Err: err}
}

// IOError builds a LoadError of kind KindIO.
func IOError(key string, err error) *LoadError {
	return &LoadError{Key: key, Kind: KindIO, Err: err}
}

// asLoadError normalises any loader error into a *LoadError.
// Errors that are not already classified are treated as I/O failures.
func asLoadError(key string, err error) *LoadError {
	var le *LoadError
	if errors.As(err, &le) {
		if le.Key == "" {
			c := *le
			c.Key = key
			return &c
		}
		return le
	}
	return IOError(key, err)
}
