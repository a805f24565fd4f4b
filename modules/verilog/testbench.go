package verilog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/specialistvlad/fabricshell/internal/binder"
	"github.com/specialistvlad/fabricshell/internal/design"
)

// OnRunWriteVerilogTestbench writes the testbenches selected by the --print_*
// flags into the directory given by --file.
func OnRunWriteVerilogTestbench(ctx context.Context, d *design.Context, inv *binder.Invocation) error {
	if _, ok := d.Fabric(); !ok {
		return errors.New("no fabric has been built")
	}
	pr, _ := d.PlaceRoute()
	circuit := pr.Circuit
	if circuit == "" {
		circuit = "circuit"
	}

	reference := inv.String("reference_benchmark_file_path")
	if _, err := os.Stat(reference); err != nil {
		return fmt.Errorf("failed to open reference benchmark: %w", err)
	}

	dir := inv.String("file")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	log := verboseLogger(ctx, inv)
	outputs := []struct {
		flag   string
		suffix string
		top    string
	}{
		{"print_top_testbench", "_top_tb.v", circuit + "_top_tb"},
		{"print_formal_verification_top_netlist", "_top_formal_verification.v", circuit + "_top_formal_verification"},
		{"print_preconfig_top_testbench", "_autocheck_top_tb.v", circuit + "_autocheck_top_tb"},
	}

	written := 0
	for _, out := range outputs {
		if !inv.Bool(out.flag) {
			continue
		}
		path := filepath.Join(dir, circuit+out.suffix)
		content := fmt.Sprintf("// Reference benchmark: %s\n`include \"%s\"\n\nmodule %s;\n\tfpga_top FPGA_DUT();\nendmodule\n",
			reference, FabricNetlist, out.top)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("failed to write testbench: %w", err)
		}
		d.AddOutput(path)
		log("Wrote testbench.", "file", path)
		written++
	}

	if ini := inv.String("print_simulation_ini"); ini != "" {
		content := fmt.Sprintf("[SIMULATION_DECK]\nPROJECTNAME = %s\nBENCHMARK = %s\nVERILOG_PATH = %s\n", circuit, reference, dir)
		if err := os.WriteFile(ini, []byte(content), 0o644); err != nil {
			return fmt.Errorf("failed to write simulation ini: %w", err)
		}
		d.AddOutput(ini)
		log("Wrote simulation ini.", "file", ini)
		written++
	}

	if written == 0 {
		log("No testbench selected, nothing written.")
	}
	return nil
}
