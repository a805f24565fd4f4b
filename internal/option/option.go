// Package option defines the flag schema of a single shell command: the names,
// short aliases, value kinds and defaults of every option the command accepts.
//
// A Schema is append-only. Options receive a dense ID on definition and keep it
// for the lifetime of the command.
package option

import (
	"fmt"
	"strings"
)

// Kind describes whether an option takes a value and of which type.
type Kind int

const (
	// Flag options take no value; presence alone switches them to true.
	Flag Kind = iota
	String
	Int
	Bool
)

// String returns the lowercase name of the kind as shown in help output.
func (k Kind) String() string {
	switch k {
	case Flag:
		return "flag"
	case String:
		return "string"
	case Int:
		return "int"
	case Bool:
		return "bool"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// TakesValue reports whether options of this kind must be followed by a value.
func (k Kind) TakesValue() bool {
	return k != Flag
}

// ID is the handle of an option within its owning schema.
type ID int

// Option is a single declared command option.
type Option struct {
	ID          ID
	Name        string
	ShortAlias  string
	Kind        Kind
	Description string
	// Required options must be supplied on every invocation. Only value-bearing
	// options can be required.
	Required bool
	// Default is used when the option is not supplied. It is nil when the
	// zero value of the kind applies.
	Default any
}

// Zero returns the value an unsupplied option resolves to.
func (o *Option) Zero() any {
	if o.Default != nil {
		return o.Default
	}
	switch o.Kind {
	case Flag, Bool:
		return false
	case Int:
		return 0
	default:
		return ""
	}
}

// Usage renders the option the way help output shows it, e.g. "--file, -f <string>".
func (o *Option) Usage() string {
	var b strings.Builder
	b.WriteString("--")
	b.WriteString(o.Name)
	if o.ShortAlias != "" {
		b.WriteString(", -")
		b.WriteString(o.ShortAlias)
	}
	if o.Kind.TakesValue() {
		fmt.Fprintf(&b, " <%s>", o.Kind)
	}
	return b.String()
}
