package catalog

import (
	"fmt"
	"slices"

	"github.com/specialistvlad/fabricshell/internal/dag"
	"github.com/specialistvlad/fabricshell/internal/option"
)

// CommandID is the handle of a registered command.
type CommandID int

// ClassID is the handle of a registered command class.
type ClassID int

// NoClass marks a command that has not been assigned to a class yet.
const NoClass ClassID = -1

// Module is the interface every stage module implements to add its commands.
type Module interface {
	Register(c *Catalog) error
}

// Command is one registered shell command.
type Command struct {
	ID          CommandID
	Name        string
	Description string
	Class       ClassID
	Options     *option.Schema
	Stage       Stage
}

// Class groups commands for listing and help.
type Class struct {
	ID       ClassID
	Name     string
	commands []CommandID
}

// Catalog holds all commands, classes and their dependency graph.
type Catalog struct {
	commands    []*Command
	byName      map[string]CommandID
	classes     []*Class
	classByName map[string]ClassID
	graph       *dag.Graph
}

// New creates and initializes an empty Catalog.
func New() *Catalog {
	return &Catalog{
		byName:      make(map[string]CommandID),
		classByName: make(map[string]ClassID),
		graph:       dag.New(),
	}
}

// AddCommand registers a new command with an empty option schema.
func (c *Catalog) AddCommand(name, description string) (CommandID, error) {
	if name == "" {
		return -1, fmt.Errorf("command name cannot be empty")
	}
	if _, exists := c.byName[name]; exists {
		return -1, &Error{Kind: ErrDuplicateCommand, Name: name}
	}

	id := CommandID(len(c.commands))
	c.commands = append(c.commands, &Command{
		ID:          id,
		Name:        name,
		Description: description,
		Class:       NoClass,
		Options:     option.NewSchema(),
	})
	c.byName[name] = id
	c.graph.AddNode(int(id))
	return id, nil
}

// Command returns the handle of a registered command by name.
func (c *Catalog) Command(name string) (CommandID, error) {
	id, ok := c.byName[name]
	if !ok {
		return -1, &Error{Kind: ErrNotFound, Name: name}
	}
	return id, nil
}

// Get returns the command behind a handle.
func (c *Catalog) Get(id CommandID) (*Command, error) {
	if id < 0 || int(id) >= len(c.commands) {
		return nil, &Error{Kind: ErrUnknownCommand, Name: fmt.Sprint(int(id))}
	}
	return c.commands[id], nil
}

// Name returns the command name for a handle, or a placeholder for unknown handles.
func (c *Catalog) Name(id CommandID) string {
	cmd, err := c.Get(id)
	if err != nil {
		return fmt.Sprintf("<command %d>", int(id))
	}
	return cmd.Name
}

// Commands returns every command in registration order.
func (c *Catalog) Commands() []*Command {
	return slices.Clone(c.commands)
}

// Schema returns the option schema of a command for further option definitions.
func (c *Catalog) Schema(id CommandID) (*option.Schema, error) {
	cmd, err := c.Get(id)
	if err != nil {
		return nil, err
	}
	return cmd.Options, nil
}

// OptionKind resolves an option of a named command by full name or alias.
func (c *Catalog) OptionKind(command, key string) (option.Kind, bool) {
	id, ok := c.byName[command]
	if !ok {
		return option.Flag, false
	}
	opt, ok := c.commands[id].Options.Lookup(key)
	if !ok {
		return option.Flag, false
	}
	return opt.Kind, true
}

// DefineOption is a shortcut for Schema(id).Define.
func (c *Catalog) DefineOption(id CommandID, name string, kind option.Kind, description string) (option.ID, error) {
	s, err := c.Schema(id)
	if err != nil {
		return -1, err
	}
	return s.Define(name, kind, description)
}

// SetClass assigns a command to a class. The command is appended to the
// class listing; reassigning moves it.
func (c *Catalog) SetClass(id CommandID, classID ClassID) error {
	cmd, err := c.Get(id)
	if err != nil {
		return err
	}
	class, err := c.class(classID)
	if err != nil {
		return err
	}
	if cmd.Class == classID {
		return nil
	}
	if cmd.Class != NoClass {
		old := c.classes[cmd.Class]
		old.commands = slices.DeleteFunc(old.commands, func(other CommandID) bool { return other == id })
	}
	cmd.Class = classID
	class.commands = append(class.commands, id)
	return nil
}

// SetMutatingFunc binds a stage that may change the design context. It
// replaces any previous binding, including a read-only one.
func (c *Catalog) SetMutatingFunc(id CommandID, fn MutatingFunc) error {
	if fn == nil {
		return fmt.Errorf("nil execute function for command %s", c.Name(id))
	}
	return c.setStage(id, fn)
}

// SetReadonlyFunc binds a reporting stage. It replaces any previous binding,
// including a mutating one.
func (c *Catalog) SetReadonlyFunc(id CommandID, fn ReadonlyFunc) error {
	if fn == nil {
		return fmt.Errorf("nil execute function for command %s", c.Name(id))
	}
	return c.setStage(id, fn)
}

func (c *Catalog) setStage(id CommandID, s Stage) error {
	cmd, err := c.Get(id)
	if err != nil {
		return err
	}
	cmd.Stage = s
	return nil
}

// SetDependencies replaces the prerequisite set of a command. Every
// prerequisite must have been registered before the command itself.
func (c *Catalog) SetDependencies(id CommandID, prerequisites []CommandID) error {
	if _, err := c.Get(id); err != nil {
		return err
	}

	deps := make([]int, 0, len(prerequisites))
	for _, p := range prerequisites {
		switch {
		case p == id:
			return &Error{Kind: ErrSelfDependency, Name: c.Name(id)}
		case p < 0 || p > id:
			// Handles above id are either unallocated or belong to commands
			// registered later; both would allow a cycle.
			return &Error{Kind: ErrUnknownPrerequisite, Name: fmt.Sprintf("%d for %s", int(p), c.Name(id))}
		}
		deps = append(deps, int(p))
	}

	return c.graph.ReplaceDependencies(int(id), deps)
}

// PrerequisitesOf returns the direct prerequisites of a command, sorted by handle.
func (c *Catalog) PrerequisitesOf(id CommandID) ([]CommandID, error) {
	if _, err := c.Get(id); err != nil {
		return nil, err
	}
	deps, err := c.graph.Dependencies(int(id))
	if err != nil {
		return nil, err
	}
	return toCommandIDs(deps), nil
}

// DependentsOf returns the commands that list id as a direct prerequisite.
func (c *Catalog) DependentsOf(id CommandID) ([]CommandID, error) {
	if _, err := c.Get(id); err != nil {
		return nil, err
	}
	deps, err := c.graph.Dependents(int(id))
	if err != nil {
		return nil, err
	}
	return toCommandIDs(deps), nil
}

// CheckAcyclic walks the dependency graph looking for cycles.
func (c *Catalog) CheckAcyclic() error {
	return c.graph.DetectCycles()
}

func toCommandIDs(ids []int) []CommandID {
	out := make([]CommandID, len(ids))
	for i, id := range ids {
		out[i] = CommandID(id)
	}
	return out
}
