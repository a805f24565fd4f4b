package setup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/specialistvlad/fabricshell/internal/binder"
	"github.com/specialistvlad/fabricshell/internal/ctxlog"
	"github.com/specialistvlad/fabricshell/internal/design"
)

// Fixup names recorded in the design context.
const (
	FixupNetlistNaming = "netlist_naming"
	FixupPbPin         = "pb_pin"
	FixupLutTruthTable = "lut_truth_table"
)

// OnRunCheckNamingConflict looks for characters in the circuit name that are
// not legal in a Verilog identifier. With --fix the name is rewritten; with
// --report the findings are written to a file.
func OnRunCheckNamingConflict(ctx context.Context, d *design.Context, inv *binder.Invocation) error {
	pr, ok := d.PlaceRoute()
	if !ok {
		return errors.New("no place-and-route result to check")
	}
	logger := ctxlog.FromContext(ctx)

	fixed := LegalizeName(pr.Circuit)
	conflicts := 0
	if fixed != pr.Circuit {
		conflicts = 1
	}

	if conflicts == 0 {
		logger.Info("No naming conflicts found.", "circuit", pr.Circuit)
	} else if !inv.Bool("fix") {
		logger.Warn("Naming conflicts found, rerun with --fix to correct them.", "circuit", pr.Circuit, "conflicts", conflicts)
	} else {
		pr.Circuit = fixed
		d.SetPlaceRoute(pr)
		d.AddFixup(FixupNetlistNaming)
		logger.Info("Naming conflicts corrected.", "circuit", fixed, "conflicts", conflicts)
	}

	if report := inv.String("report"); report != "" {
		var b strings.Builder
		fmt.Fprintf(&b, "conflicts: %d\n", conflicts)
		if conflicts > 0 {
			fmt.Fprintf(&b, "block: %s\n", pr.Circuit)
			fmt.Fprintf(&b, "fixed: %t\n", inv.Bool("fix"))
		}
		if err := os.WriteFile(report, []byte(b.String()), 0o644); err != nil {
			return fmt.Errorf("failed to write naming report: %w", err)
		}
		d.AddOutput(report)
	}
	return nil
}

// LegalizeName replaces every character that cannot appear in a Verilog
// identifier with an underscore and prefixes names that start with a digit.
func LegalizeName(name string) string {
	var b strings.Builder
	for i, r := range name {
		switch {
		case r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			if i == 0 {
				b.WriteRune('_')
			}
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

// OnRunPbPinFixup records the pin-swap correction of the packing results.
func OnRunPbPinFixup(ctx context.Context, d *design.Context, inv *binder.Invocation) error {
	return applyFixup(ctx, d, inv, FixupPbPin)
}

// OnRunLutTruthTableFixup records the LUT truth table correction.
func OnRunLutTruthTableFixup(ctx context.Context, d *design.Context, inv *binder.Invocation) error {
	return applyFixup(ctx, d, inv, FixupLutTruthTable)
}

func applyFixup(ctx context.Context, d *design.Context, inv *binder.Invocation, name string) error {
	if _, ok := d.Architecture(); !ok {
		return errNoArchitecture
	}
	pr, ok := d.PlaceRoute()
	if !ok {
		return errors.New("no place-and-route result to fix up")
	}
	d.AddFixup(name)

	logger := ctxlog.FromContext(ctx)
	logf := logger.Debug
	if inv.Bool("verbose") {
		logf = logger.Info
	}
	logf("Fixup applied.", "fixup", name, "blocks", pr.Blocks)
	return nil
}
