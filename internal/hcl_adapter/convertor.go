package hcl_adapter

import (
	"fmt"
	"strconv"

	"github.com/specialistvlad/fabricshell/internal/binder"
	"github.com/specialistvlad/fabricshell/internal/option"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Converter turns evaluated HCL attribute values into binder tokens.
type Converter struct{}

// NewConverter creates a new HCL converter.
func NewConverter() *Converter {
	return &Converter{}
}

// ToToken converts one attribute. known reports whether the option is
// declared, in which case kind drives the conversion; undeclared options are
// passed through so the binder can reject them. A false return means the
// attribute produces no token: null values and flags set to false.
func (c *Converter) ToToken(name string, kind option.Kind, known bool, val cty.Value) (binder.Token, bool, error) {
	if val.IsNull() {
		return binder.Token{}, false, nil
	}
	if !val.IsWhollyKnown() {
		return binder.Token{}, false, fmt.Errorf("option %q: value is not known", name)
	}

	switch {
	case known && kind == option.Flag, !known && val.Type() == cty.Bool:
		b, err := convert.Convert(val, cty.Bool)
		if err != nil {
			return binder.Token{}, false, fmt.Errorf("option %q is a flag and must be true or false: %w", name, err)
		}
		if b.True() {
			return binder.Flag(name), true, nil
		}
		return binder.Token{}, false, nil

	case known && kind == option.Int:
		num, err := convert.Convert(val, cty.Number)
		if err != nil {
			return binder.Token{}, false, fmt.Errorf("option %q must be a number: %w", name, err)
		}
		var n int64
		if err := gocty.FromCtyValue(num, &n); err != nil {
			return binder.Token{}, false, fmt.Errorf("option %q must be a whole number: %w", name, err)
		}
		return binder.Value(name, strconv.FormatInt(n, 10)), true, nil
	}

	s, err := convert.Convert(val, cty.String)
	if err != nil {
		return binder.Token{}, false, fmt.Errorf("option %q cannot be used as a string: %w", name, err)
	}
	return binder.Value(name, s.AsString()), true, nil
}

// EnvValue builds the `env` object scripts can reference.
func (c *Converter) EnvValue(env map[string]string) (cty.Value, error) {
	if len(env) == 0 {
		return cty.MapValEmpty(cty.String), nil
	}
	return gocty.ToCtyValue(env, cty.Map(cty.String))
}
