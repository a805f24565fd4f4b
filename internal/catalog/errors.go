package catalog

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateCommand    = errors.New("duplicate command")
	ErrDuplicateClass      = errors.New("duplicate command class")
	ErrNotFound            = errors.New("command not found")
	ErrUnknownCommand      = errors.New("unknown command id")
	ErrUnknownClass        = errors.New("unknown command class")
	ErrUnknownPrerequisite = errors.New("unknown prerequisite")
	ErrSelfDependency      = errors.New("command depends on itself")
	ErrNoStage             = errors.New("command has no execute function")
)

// Error is returned by every catalog mutation and lookup. Kind is one of the
// sentinel errors above and is reachable with errors.Is.
type Error struct {
	Kind error
	Name string
}

func (e *Error) Error() string {
	if e.Name == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Name)
}

func (e *Error) Unwrap() error { return e.Kind }
