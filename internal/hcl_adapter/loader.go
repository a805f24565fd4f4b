package hcl_adapter

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/fabricshell/internal/config"
	"github.com/specialistvlad/fabricshell/internal/ctxlog"
	"github.com/specialistvlad/fabricshell/internal/option"
	"github.com/zclconf/go-cty/cty"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct {
	kinds     config.OptionKinds
	converter *Converter
}

// NewLoader creates a new HCL script loader. kinds may be nil, in which case
// every bool becomes a flag and everything else a string.
func NewLoader(kinds config.OptionKinds) *Loader {
	return &Loader{kinds: kinds, converter: NewConverter()}
}

var scriptSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "command", LabelNames: []string{"name"}},
	},
}

// Load parses one HCL script. Every `command "<name>" { ... }` block becomes
// a step, in file order.
func (l *Loader) Load(ctx context.Context, path string) (*config.Script, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path", path)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}

	content, diags := file.Body.Content(scriptSchema)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
	}

	evalCtx, err := l.evalContext()
	if err != nil {
		return nil, err
	}

	script := &config.Script{Path: path}
	for _, block := range content.Blocks {
		step, err := l.translateBlock(block, evalCtx)
		if err != nil {
			return nil, err
		}
		script.Steps = append(script.Steps, step)
	}

	logger.Debug("HCL loading complete.", "steps", len(script.Steps))
	return script, nil
}

func (l *Loader) evalContext() (*hcl.EvalContext, error) {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	envVal, err := l.converter.EnvValue(env)
	if err != nil {
		return nil, fmt.Errorf("failed to build script environment: %w", err)
	}
	return &hcl.EvalContext{Variables: map[string]cty.Value{"env": envVal}}, nil
}

// translateBlock converts one command block into a step. Attributes are
// emitted in source order.
func (l *Loader) translateBlock(block *hcl.Block, evalCtx *hcl.EvalContext) (*config.Step, error) {
	name := block.Labels[0]
	source := block.DefRange.String()

	attrs, diags := block.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("%s: command %q: %w", source, name, diags)
	}
	ordered := make([]*hcl.Attribute, 0, len(attrs))
	for _, attr := range attrs {
		ordered = append(ordered, attr)
	}
	slices.SortFunc(ordered, func(a, b *hcl.Attribute) int {
		return a.Range.Start.Byte - b.Range.Start.Byte
	})

	step := &config.Step{Command: name, Source: source}
	for _, attr := range ordered {
		val, diags := attr.Expr.Value(evalCtx)
		if diags.HasErrors() {
			return nil, fmt.Errorf("%s: command %q: %w", source, name, diags)
		}

		kind, known := option.Flag, false
		if l.kinds != nil {
			kind, known = l.kinds.OptionKind(name, attr.Name)
		}
		tok, ok, err := l.converter.ToToken(attr.Name, kind, known, val)
		if err != nil {
			return nil, fmt.Errorf("%s: command %q: %w", attr.Range.String(), name, err)
		}
		if ok {
			step.Tokens = append(step.Tokens, tok)
		}
	}
	return step, nil
}
