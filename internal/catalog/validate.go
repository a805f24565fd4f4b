package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/specialistvlad/fabricshell/internal/ctxlog"
)

// Validate checks that the catalog is ready for the run phase: every command
// has an execute function and a class, and the dependency graph is acyclic.
func (c *Catalog) Validate(ctx context.Context) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	for _, cmd := range c.commands {
		if cmd.Stage == nil {
			errs = append(errs, fmt.Sprintf("command '%s': %s", cmd.Name, ErrNoStage))
		}
		if cmd.Class == NoClass {
			logger.Warn("Command is not assigned to a class and will not appear in help listings.", "command", cmd.Name)
		}
	}

	if err := c.CheckAcyclic(); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("catalog validation failed:\n- %s", strings.Join(errs, "\n- "))
	}

	logger.Debug("Catalog validation passed.", "commands", len(c.commands), "classes", len(c.classes))
	return nil
}
