package catalog

import (
	"fmt"
	"slices"
)

// AddClass registers a new command class.
func (c *Catalog) AddClass(name string) (ClassID, error) {
	if name == "" {
		return NoClass, fmt.Errorf("class name cannot be empty")
	}
	if _, exists := c.classByName[name]; exists {
		return NoClass, &Error{Kind: ErrDuplicateClass, Name: name}
	}
	id := ClassID(len(c.classes))
	c.classes = append(c.classes, &Class{ID: id, Name: name})
	c.classByName[name] = id
	return id, nil
}

// ClassByName returns the handle of a registered class.
func (c *Catalog) ClassByName(name string) (ClassID, error) {
	id, ok := c.classByName[name]
	if !ok {
		return NoClass, &Error{Kind: ErrUnknownClass, Name: name}
	}
	return id, nil
}

// Classes returns every class in registration order.
func (c *Catalog) Classes() []*Class {
	return slices.Clone(c.classes)
}

// ListCommands returns the commands of a class in registration order.
func (c *Catalog) ListCommands(id ClassID) ([]CommandID, error) {
	class, err := c.class(id)
	if err != nil {
		return nil, err
	}
	out := slices.Clone(class.commands)
	slices.Sort(out)
	return out, nil
}

func (c *Catalog) class(id ClassID) (*Class, error) {
	if id < 0 || int(id) >= len(c.classes) {
		return nil, &Error{Kind: ErrUnknownClass, Name: fmt.Sprint(int(id))}
	}
	return c.classes[id], nil
}
