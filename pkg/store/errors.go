package store

import (
	"errors"
	"fmt"
)

var (
	ErrRead               = errors.New("cannot read schedule")
	ErrFormatNotSupported = errors.New("format not supported")
	ErrDecode             = errors.New("cannot decode schedule")
	ErrEncode             = errors.New("cannot encode schedule")
)

// LoadError reports a failure to read, decode or encode one schedule file.
// Kind is one of the sentinel errors above; Err carries the underlying detail.
type LoadError struct {
	Path   string
	Format string
	Kind   error
	Err    error
}

func (e *LoadError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Path, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Path, e.Kind, e.Err)
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *LoadError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
