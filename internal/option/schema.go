package option

import "fmt"

// Schema is the ordered option set of one command.
type Schema struct {
	options []*Option
	// keys maps every name and alias to its option, so a single lookup resolves
	// either form.
	keys map[string]*Option
}

// NewSchema returns an empty schema.
func NewSchema() *Schema {
	return &Schema{keys: make(map[string]*Option)}
}

// Define appends an option. Value-bearing options start out required; use
// SetRequired or SetDefault to relax that.
func (s *Schema) Define(name string, kind Kind, description string) (ID, error) {
	if name == "" {
		return -1, fmt.Errorf("option name cannot be empty")
	}
	if _, exists := s.keys[name]; exists {
		return -1, &SchemaError{Kind: ErrDuplicateOption, Name: name}
	}
	opt := &Option{
		ID:          ID(len(s.options)),
		Name:        name,
		Kind:        kind,
		Description: description,
		Required:    kind.TakesValue(),
	}
	s.options = append(s.options, opt)
	s.keys[name] = opt
	return opt.ID, nil
}

// SetShortAlias gives the option a short form such as "f" for "--file".
func (s *Schema) SetShortAlias(id ID, alias string) error {
	opt, err := s.get(id)
	if err != nil {
		return err
	}
	if alias == "" {
		return fmt.Errorf("short alias for %q cannot be empty", opt.Name)
	}
	// An alias may only shadow nothing, or the option's own current alias.
	if other, exists := s.keys[alias]; exists && (other != opt || opt.Name == alias) {
		return &SchemaError{Kind: ErrDuplicateAlias, Name: alias}
	}
	if opt.ShortAlias != "" {
		delete(s.keys, opt.ShortAlias)
	}
	opt.ShortAlias = alias
	s.keys[alias] = opt
	return nil
}

// SetValueKind changes the value kind. The last call wins. Switching to Flag
// drops the required marker, since flags cannot be required.
func (s *Schema) SetValueKind(id ID, kind Kind) error {
	opt, err := s.get(id)
	if err != nil {
		return err
	}
	if kind == opt.Kind {
		return nil
	}
	wasFlag := !opt.Kind.TakesValue()
	opt.Kind = kind
	opt.Default = nil
	switch {
	case !kind.TakesValue():
		opt.Required = false
	case wasFlag:
		opt.Required = true
	}
	return nil
}

// SetRequired marks a value-bearing option as mandatory or optional.
func (s *Schema) SetRequired(id ID, required bool) error {
	opt, err := s.get(id)
	if err != nil {
		return err
	}
	if required && !opt.Kind.TakesValue() {
		return fmt.Errorf("flag option %q cannot be required", opt.Name)
	}
	opt.Required = required
	return nil
}

// SetDefault gives the option a fallback value and makes it optional. The value
// must match the option's kind: string, int or bool.
func (s *Schema) SetDefault(id ID, value any) error {
	opt, err := s.get(id)
	if err != nil {
		return err
	}
	ok := false
	switch opt.Kind {
	case String:
		_, ok = value.(string)
	case Int:
		_, ok = value.(int)
	case Bool, Flag:
		_, ok = value.(bool)
	}
	if !ok {
		return &SchemaError{Kind: ErrInvalidDefault, Name: fmt.Sprintf("%s=%v", opt.Name, value)}
	}
	opt.Default = value
	opt.Required = false
	return nil
}

// Lookup resolves a full name or short alias.
func (s *Schema) Lookup(key string) (*Option, bool) {
	opt, ok := s.keys[key]
	return opt, ok
}

// Option returns the option with the given id.
func (s *Schema) Option(id ID) (*Option, bool) {
	opt, err := s.get(id)
	return opt, err == nil
}

// Options returns the options in definition order. The slice is a copy, the
// options are shared.
func (s *Schema) Options() []*Option {
	out := make([]*Option, len(s.options))
	copy(out, s.options)
	return out
}

// Len returns the number of defined options.
func (s *Schema) Len() int {
	return len(s.options)
}

func (s *Schema) get(id ID) (*Option, error) {
	if id < 0 || int(id) >= len(s.options) {
		return nil, &SchemaError{Kind: ErrUnknownOption, Name: fmt.Sprint(int(id))}
	}
	return s.options[id], nil
}
