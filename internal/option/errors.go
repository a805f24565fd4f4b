package option

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateOption = errors.New("duplicate option")
	ErrDuplicateAlias  = errors.New("duplicate short alias")
	ErrUnknownOption   = errors.New("unknown option id")
	ErrInvalidDefault  = errors.New("invalid default value")
)

// SchemaError reports a failed schema mutation. Kind is one of the sentinel
// errors above and is reachable with errors.Is.
type SchemaError struct {
	Kind error
	Name string
}

func (e *SchemaError) Error() string {
	if e.Name == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %q", e.Kind.Error(), e.Name)
}

func (e *SchemaError) Unwrap() error { return e.Kind }
