// Package verilog provides the FPGA-Verilog commands that emit the fabric
// netlists and the verification testbenches.
package verilog

import (
	"github.com/specialistvlad/fabricshell/internal/catalog"
	"github.com/specialistvlad/fabricshell/internal/option"
)

// ClassName is the help class shared by every command in this package.
const ClassName = "FPGA-Verilog"

// Module implements the catalog.Module interface for this package. It
// requires build_fabric to be registered first.
type Module struct{}

// Register adds the Verilog commands to the catalog.
func (m *Module) Register(c *catalog.Catalog) error {
	verbose := catalog.OptionDef{Name: "verbose", Kind: option.Flag, Description: "Enable verbose output"}
	file := catalog.OptionDef{Name: "file", Short: "f", Kind: option.String, Description: "Specify the output directory for Verilog netlists"}

	defs := []catalog.Definition{
		{
			Name:        "write_fabric_verilog",
			Description: "generate Verilog netlists modeling full FPGA fabric",
			Options: []catalog.OptionDef{
				file,
				{Name: "explicit_port_mapping", Kind: option.Flag, Description: "Use explicit port mapping in Verilog netlists"},
				{Name: "include_timing", Kind: option.Flag, Description: "Enable timing annotation in Verilog netlists"},
				{Name: "include_signal_init", Kind: option.Flag, Description: "Initialize all the signals in Verilog netlists"},
				{Name: "support_icarus_simulator", Kind: option.Flag, Description: "Fine-tune Verilog netlists to support icarus simulator"},
				{Name: "print_user_defined_template", Kind: option.Flag, Description: "Generate a template Verilog files for user-defined circuit models"},
				verbose,
			},
			Prerequisites: []string{"build_fabric"},
			Stage:         catalog.MutatingFunc(OnRunWriteFabricVerilog),
		},
		{
			Name:        "write_verilog_testbench",
			Description: "generate Verilog testbenches for full FPGA fabric",
			Options: []catalog.OptionDef{
				file,
				{Name: "reference_benchmark_file_path", Kind: option.String, Description: "Specify the file path to the reference Verilog netlist"},
				{Name: "print_top_testbench", Kind: option.Flag, Description: "Generate a full testbench for top-level fabric module with autocheck capability"},
				{Name: "print_formal_verification_top_netlist", Kind: option.Flag, Description: "Generate a top-level module which can be used in formal verification"},
				{Name: "print_preconfig_top_testbench", Kind: option.Flag, Description: "Generate a pre-configured testbench for top-level fabric module with autocheck capability"},
				{Name: "print_simulation_ini", Kind: option.String, Optional: true, Description: "Generate a .ini file as an exchangeable file to enable HDL simulations"},
				verbose,
			},
			Prerequisites: []string{"build_fabric"},
			Stage:         catalog.MutatingFunc(OnRunWriteVerilogTestbench),
		},
	}

	for _, def := range defs {
		def.Class = ClassName
		if _, err := c.Define(def); err != nil {
			return err
		}
	}
	return nil
}
