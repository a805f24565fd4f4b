package binder

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownOption         = errors.New("unknown option")
	ErrUnexpectedValue       = errors.New("unexpected value")
	ErrMissingValue          = errors.New("missing value")
	ErrTypeMismatch          = errors.New("type mismatch")
	ErrMissingRequiredOption = errors.New("missing required option")
)

// BindError describes why a token list could not be bound to a command's
// options. Kind is one of the sentinel errors above.
type BindError struct {
	Kind   error
	Option string
	Value  string
	// Expected is the declared kind for type mismatches.
	Expected string
}

func (e *BindError) Error() string {
	switch {
	case errors.Is(e.Kind, ErrTypeMismatch):
		return fmt.Sprintf("%s: option --%s expects %s, got %q", e.Kind, e.Option, e.Expected, e.Value)
	case errors.Is(e.Kind, ErrUnexpectedValue):
		return fmt.Sprintf("%s: option --%s takes no value, got %q", e.Kind, e.Option, e.Value)
	default:
		return fmt.Sprintf("%s: %s", e.Kind, e.Option)
	}
}

func (e *BindError) Unwrap() error { return e.Kind }
