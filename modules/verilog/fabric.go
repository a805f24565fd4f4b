package verilog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/specialistvlad/fabricshell/internal/binder"
	"github.com/specialistvlad/fabricshell/internal/ctxlog"
	"github.com/specialistvlad/fabricshell/internal/design"
)

const (
	FabricNetlist    = "fpga_top.v"
	TemplatesNetlist = "user_defined_templates.v"
)

func verboseLogger(ctx context.Context, inv *binder.Invocation) func(string, ...any) {
	logger := ctxlog.FromContext(ctx)
	if inv.Bool("verbose") {
		return logger.Info
	}
	return logger.Debug
}

// OnRunWriteFabricVerilog writes the top-level fabric netlist into the
// directory given by --file.
func OnRunWriteFabricVerilog(ctx context.Context, d *design.Context, inv *binder.Invocation) error {
	fabric, ok := d.Fabric()
	if !ok {
		return errors.New("no fabric has been built")
	}
	dir := inv.String("file")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	var b bytes.Buffer
	if inv.Bool("include_timing") {
		b.WriteString("`timescale 1ns / 1ps\n\n")
	}
	if inv.Bool("support_icarus_simulator") {
		b.WriteString("`ifdef ICARUS_SIMULATOR\n`define ENABLE_SIGNAL_INITIALIZATION\n`endif\n\n")
	}
	b.WriteString("module fpga_top(prog_clk, set, reset, clk);\n")
	b.WriteString("input prog_clk;\ninput set;\ninput reset;\ninput clk;\n\n")
	if inv.Bool("include_signal_init") {
		b.WriteString("`ifdef ENABLE_SIGNAL_INITIALIZATION\ninitial begin\nend\n`endif\n\n")
	}
	for i := range fabric.Modules {
		if inv.Bool("explicit_port_mapping") {
			fmt.Fprintf(&b, "\tfabric_module_%d inst_%d (.prog_clk(prog_clk), .set(set), .reset(reset), .clk(clk));\n", i, i)
		} else {
			fmt.Fprintf(&b, "\tfabric_module_%d inst_%d (prog_clk, set, reset, clk);\n", i, i)
		}
	}
	b.WriteString("endmodule\n")

	log := verboseLogger(ctx, inv)
	top := filepath.Join(dir, FabricNetlist)
	if err := os.WriteFile(top, b.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write fabric netlist: %w", err)
	}
	d.AddOutput(top)
	log("Wrote fabric netlist.", "file", top, "modules", fabric.Modules)

	if inv.Bool("print_user_defined_template") {
		tmpl := filepath.Join(dir, TemplatesNetlist)
		content := "// Template for user-defined circuit models\n// Fill in the module body for each model.\n"
		if err := os.WriteFile(tmpl, []byte(content), 0o644); err != nil {
			return fmt.Errorf("failed to write user-defined templates: %w", err)
		}
		d.AddOutput(tmpl)
		log("Wrote user-defined templates.", "file", tmpl)
	}
	return nil
}
