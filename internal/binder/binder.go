// Package binder turns the raw tokens of one command invocation into a
// validated, fully typed Invocation for that command's option schema.
package binder

import (
	"sort"
	"strconv"
	"strings"

	"github.com/specialistvlad/fabricshell/internal/option"
)

// Invocation is the resolved option set of a single command call. Every
// declared option has a value: the supplied one, its default or its kind's
// zero value.
type Invocation struct {
	CommandID int
	Command   string

	values   map[string]any
	supplied map[string]bool
}

// Bind resolves tokens against schema. Binding stops at the first bad token;
// required options are checked after all tokens are consumed.
func Bind(schema *option.Schema, tokens []Token) (*Invocation, error) {
	inv := &Invocation{
		values:   make(map[string]any, schema.Len()),
		supplied: make(map[string]bool, len(tokens)),
	}

	for _, tok := range tokens {
		opt, ok := schema.Lookup(tok.Key)
		if !ok {
			return nil, &BindError{Kind: ErrUnknownOption, Option: tok.Key}
		}

		if !opt.Kind.TakesValue() {
			if tok.HasValue {
				return nil, &BindError{Kind: ErrUnexpectedValue, Option: opt.Name, Value: tok.Value}
			}
			inv.values[opt.Name] = true
			inv.supplied[opt.Name] = true
			continue
		}

		if !tok.HasValue {
			return nil, &BindError{Kind: ErrMissingValue, Option: opt.Name}
		}
		v, err := coerce(opt, tok.Value)
		if err != nil {
			return nil, err
		}
		// A repeated option keeps its last value.
		inv.values[opt.Name] = v
		inv.supplied[opt.Name] = true
	}

	for _, opt := range schema.Options() {
		if inv.supplied[opt.Name] {
			continue
		}
		if opt.Required {
			return nil, &BindError{Kind: ErrMissingRequiredOption, Option: opt.Name}
		}
		inv.values[opt.Name] = opt.Zero()
	}

	return inv, nil
}

func coerce(opt *option.Option, raw string) (any, error) {
	switch opt.Kind {
	case option.Int:
		n, err := strconv.ParseInt(raw, 10, 0)
		if err != nil {
			return nil, &BindError{Kind: ErrTypeMismatch, Option: opt.Name, Value: raw, Expected: opt.Kind.String()}
		}
		return int(n), nil
	case option.Bool:
		b, ok := parseBool(raw)
		if !ok {
			return nil, &BindError{Kind: ErrTypeMismatch, Option: opt.Name, Value: raw, Expected: opt.Kind.String()}
		}
		return b, nil
	default:
		return raw, nil
	}
}

func parseBool(raw string) (bool, bool) {
	switch strings.ToLower(raw) {
	case "true", "1", "yes":
		return true, true
	case "false", "0", "no":
		return false, true
	default:
		return false, false
	}
}

// Value returns the resolved value of an option and whether the option exists.
func (inv *Invocation) Value(name string) (any, bool) {
	v, ok := inv.values[name]
	return v, ok
}

// String returns a string option, or "" if the option is unknown or not a string.
func (inv *Invocation) String(name string) string {
	s, _ := inv.values[name].(string)
	return s
}

// Int returns an int option, or 0.
func (inv *Invocation) Int(name string) int {
	n, _ := inv.values[name].(int)
	return n
}

// Bool returns a flag or bool option, or false.
func (inv *Invocation) Bool(name string) bool {
	b, _ := inv.values[name].(bool)
	return b
}

// Supplied reports whether the option was given explicitly.
func (inv *Invocation) Supplied(name string) bool {
	return inv.supplied[name]
}

// Names returns every resolved option name, sorted.
func (inv *Invocation) Names() []string {
	names := make([]string, 0, len(inv.values))
	for name := range inv.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Values returns a copy of the resolved values.
func (inv *Invocation) Values() map[string]any {
	out := make(map[string]any, len(inv.values))
	for k, v := range inv.values {
		out[k] = v
	}
	return out
}
