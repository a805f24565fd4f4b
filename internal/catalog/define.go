package catalog

import (
	"fmt"

	"github.com/specialistvlad/fabricshell/internal/option"
)

// OptionDef declares one option of a Definition.
type OptionDef struct {
	Name        string
	Short       string
	Kind        option.Kind
	Description string
	// Optional relaxes the requirement that a value-taking option be supplied.
	Optional bool
	// Default is used when the option is not supplied. Setting it implies Optional.
	Default any
}

// Definition is the declarative form of a command used by stage modules.
// Prerequisites and Class are referenced by name; the class is created on
// first use.
type Definition struct {
	Name          string
	Description   string
	Class         string
	Options       []OptionDef
	Prerequisites []string
	Stage         Stage
}

// Define registers a command from its declarative form. Prerequisites are
// resolved before anything is added, so an unknown prerequisite leaves the
// catalog unchanged.
func (c *Catalog) Define(def Definition) (CommandID, error) {
	prereqs := make([]CommandID, 0, len(def.Prerequisites))
	for _, name := range def.Prerequisites {
		p, err := c.Command(name)
		if err != nil {
			return -1, &Error{Kind: ErrUnknownPrerequisite, Name: fmt.Sprintf("%s for %s", name, def.Name)}
		}
		prereqs = append(prereqs, p)
	}

	id, err := c.AddCommand(def.Name, def.Description)
	if err != nil {
		return -1, err
	}
	cmd := c.commands[id]

	for _, od := range def.Options {
		if err := defineOption(cmd.Options, od); err != nil {
			return id, fmt.Errorf("command '%s': %w", def.Name, err)
		}
	}

	if def.Class != "" {
		classID, err := c.ClassByName(def.Class)
		if err != nil {
			if classID, err = c.AddClass(def.Class); err != nil {
				return id, err
			}
		}
		if err := c.SetClass(id, classID); err != nil {
			return id, err
		}
	}

	switch fn := def.Stage.(type) {
	case MutatingFunc:
		err = c.SetMutatingFunc(id, fn)
	case ReadonlyFunc:
		err = c.SetReadonlyFunc(id, fn)
	}
	if err != nil {
		return id, err
	}

	if len(prereqs) > 0 {
		if err := c.SetDependencies(id, prereqs); err != nil {
			return id, err
		}
	}
	return id, nil
}

func defineOption(s *option.Schema, od OptionDef) error {
	optID, err := s.Define(od.Name, od.Kind, od.Description)
	if err != nil {
		return err
	}
	if od.Short != "" {
		if err := s.SetShortAlias(optID, od.Short); err != nil {
			return err
		}
	}
	if od.Default != nil {
		return s.SetDefault(optID, od.Default)
	}
	if od.Optional && od.Kind.TakesValue() {
		return s.SetRequired(optID, false)
	}
	return nil
}
