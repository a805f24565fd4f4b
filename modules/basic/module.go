// Package basic provides the built-in shell commands: help and history.
// Both are read-only and never touch the design context.
package basic

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/specialistvlad/fabricshell/internal/binder"
	"github.com/specialistvlad/fabricshell/internal/catalog"
	"github.com/specialistvlad/fabricshell/internal/design"
	"github.com/specialistvlad/fabricshell/internal/history"
	"github.com/specialistvlad/fabricshell/internal/option"
)

// ClassName is the help class of the built-in commands.
const ClassName = "Basic"

// Module implements the catalog.Module interface for this package.
type Module struct {
	Out     io.Writer
	History *history.Log

	catalog *catalog.Catalog
}

// Register adds help and history to the catalog.
func (m *Module) Register(c *catalog.Catalog) error {
	m.catalog = c
	defs := []catalog.Definition{
		{
			Name:        "help",
			Description: "Show the available commands, or the options of one command",
			Options: []catalog.OptionDef{
				{Name: "command", Short: "c", Kind: option.String, Optional: true, Description: "command to describe"},
			},
			Stage: catalog.ReadonlyFunc(m.onRunHelp),
		},
		{
			Name:        "history",
			Description: "Show the commands run in this session",
			Stage:       catalog.ReadonlyFunc(m.onRunHistory),
		},
	}
	for _, def := range defs {
		def.Class = ClassName
		if _, err := c.Define(def); err != nil {
			return err
		}
	}
	return nil
}

func (m *Module) onRunHelp(_ context.Context, _ design.Reader, inv *binder.Invocation) error {
	if name := inv.String("command"); name != "" {
		return m.describe(name)
	}

	w := tabwriter.NewWriter(m.Out, 0, 4, 2, ' ', 0)
	for _, class := range m.catalog.Classes() {
		ids, err := m.catalog.ListCommands(class.ID)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s:\n", class.Name)
		for _, id := range ids {
			cmd, err := m.catalog.Get(id)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "  %s\t%s\n", cmd.Name, cmd.Description)
		}
	}
	return w.Flush()
}

func (m *Module) describe(name string) error {
	id, err := m.catalog.Command(name)
	if err != nil {
		return err
	}
	cmd, err := m.catalog.Get(id)
	if err != nil {
		return err
	}

	fmt.Fprintf(m.Out, "%s: %s\n", cmd.Name, cmd.Description)
	w := tabwriter.NewWriter(m.Out, 0, 4, 2, ' ', 0)
	for _, opt := range cmd.Options.Options() {
		var notes []string
		if opt.Required {
			notes = append(notes, "required")
		}
		if opt.Default != nil {
			notes = append(notes, fmt.Sprintf("default %v", opt.Default))
		}
		desc := opt.Description
		if len(notes) > 0 {
			desc += " (" + strings.Join(notes, ", ") + ")"
		}
		fmt.Fprintf(w, "  %s\t%s\n", opt.Usage(), desc)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	prereqs, err := m.catalog.PrerequisitesOf(id)
	if err != nil {
		return err
	}
	if len(prereqs) > 0 {
		fmt.Fprintf(m.Out, "Requires: %s\n", strings.Join(m.names(prereqs), ", "))
	}

	dependents, err := m.catalog.DependentsOf(id)
	if err != nil {
		return err
	}
	if len(dependents) > 0 {
		fmt.Fprintf(m.Out, "Required by: %s\n", strings.Join(m.names(dependents), ", "))
	}
	return nil
}

func (m *Module) names(ids []catalog.CommandID) []string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = m.catalog.Name(id)
	}
	return names
}

func (m *Module) onRunHistory(_ context.Context, _ design.Reader, _ *binder.Invocation) error {
	if m.History == nil {
		return fmt.Errorf("history is not available")
	}
	w := tabwriter.NewWriter(m.Out, 0, 4, 2, ' ', 0)
	for _, e := range m.History.Entries() {
		line := fmt.Sprintf("%d\t%s\t%s", e.Seq, e.Command, e.Outcome)
		if e.Error != "" {
			line += "\t" + e.Error
		}
		fmt.Fprintln(w, line)
	}
	return w.Flush()
}
