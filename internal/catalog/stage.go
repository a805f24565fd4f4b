package catalog

import (
	"context"

	"github.com/specialistvlad/fabricshell/internal/binder"
	"github.com/specialistvlad/fabricshell/internal/design"
)

// Stage is the execute function bound to a command. It is either a
// MutatingFunc or a ReadonlyFunc; the shell switches on the concrete type.
type Stage interface {
	isStage()
}

// MutatingFunc is a stage that may change the shared design context.
type MutatingFunc func(ctx context.Context, d *design.Context, inv *binder.Invocation) error

// ReadonlyFunc is a stage that only reports on the design context. It must not
// mutate anything reachable from d, so it is safe to run any number of times.
type ReadonlyFunc func(ctx context.Context, d design.Reader, inv *binder.Invocation) error

func (MutatingFunc) isStage() {}
func (ReadonlyFunc) isStage() {}

// StageKind returns a short label for logs and help output.
func StageKind(s Stage) string {
	switch s.(type) {
	case MutatingFunc:
		return "mutating"
	case ReadonlyFunc:
		return "readonly"
	default:
		return "unbound"
	}
}
