package shell

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrOrdering  = errors.New("unmet prerequisites")
	ErrExecution = errors.New("execution failed")
	ErrBusy      = errors.New("another command is still running")
)

// OrderingError names every prerequisite of Command that has not succeeded
// yet in this session.
type OrderingError struct {
	Command string
	Missing []string
}

func (e *OrderingError) Error() string {
	return fmt.Sprintf("%s: command '%s' requires %s to run successfully first",
		ErrOrdering, e.Command, strings.Join(quote(e.Missing), ", "))
}

func (e *OrderingError) Unwrap() error { return ErrOrdering }

// ExecutionError wraps the error returned by a command's execute function.
// Both ErrExecution and the stage's own error are reachable with errors.Is.
type ExecutionError struct {
	Command string
	Seq     int
	Err     error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("%s: command '%s' (#%d): %v", ErrExecution, e.Command, e.Seq, e.Err)
}

func (e *ExecutionError) Unwrap() []error { return []error{ErrExecution, e.Err} }

func quote(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = "'" + n + "'"
	}
	return out
}
