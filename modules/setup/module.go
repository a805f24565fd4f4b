// Package setup provides the OpenFPGA setup commands: loading and linking the
// architecture, netlist fixups and fabric construction.
package setup

import (
	"github.com/specialistvlad/fabricshell/internal/catalog"
	"github.com/specialistvlad/fabricshell/internal/option"
)

// ClassName is the help class shared by every command in this package.
const ClassName = "OpenFPGA setup"

// Module implements the catalog.Module interface for this package. It
// requires the vpr command to be registered first.
type Module struct{}

func verbose() catalog.OptionDef {
	return catalog.OptionDef{Name: "verbose", Kind: option.Flag, Description: "Show verbose outputs"}
}

// Register adds the setup commands to the catalog in dependency order.
func (m *Module) Register(c *catalog.Catalog) error {
	defs := []catalog.Definition{
		{
			Name:        "read_openfpga_arch",
			Description: "read OpenFPGA architecture file",
			Options: []catalog.OptionDef{
				{Name: "file", Short: "f", Kind: option.String, Description: "file path to the architecture XML"},
			},
			Stage: catalog.MutatingFunc(OnRunReadArch),
		},
		{
			Name:        "write_openfpga_arch",
			Description: "write OpenFPGA architecture file",
			Options: []catalog.OptionDef{
				{Name: "file", Short: "f", Kind: option.String, Description: "file path to the architecture XML"},
			},
			Prerequisites: []string{"read_openfpga_arch"},
			Stage:         catalog.ReadonlyFunc(OnRunWriteArch),
		},
		{
			Name:        "link_openfpga_arch",
			Description: "Bind OpenFPGA architecture to VPR",
			Options: []catalog.OptionDef{
				{Name: "activity_file", Kind: option.String, Description: "file path to the signal activity"},
				verbose(),
			},
			Prerequisites: []string{"read_openfpga_arch", "vpr"},
			Stage:         catalog.MutatingFunc(OnRunLinkArch),
		},
		{
			Name:        "check_netlist_naming_conflict",
			Description: "Check and correct any naming conflicts in the BLIF netlist",
			Options: []catalog.OptionDef{
				{Name: "fix", Kind: option.Flag, Description: "Apply correction to any conflicts found"},
				{Name: "report", Kind: option.String, Optional: true, Description: "Output a report file about what any correction applied"},
			},
			Prerequisites: []string{"vpr"},
			Stage:         catalog.MutatingFunc(OnRunCheckNamingConflict),
		},
		{
			Name:          "pb_pin_fixup",
			Description:   "Fix up the packing results due to pin swapping during routing stage",
			Options:       []catalog.OptionDef{verbose()},
			Prerequisites: []string{"read_openfpga_arch", "vpr"},
			Stage:         catalog.MutatingFunc(OnRunPbPinFixup),
		},
		{
			Name:          "lut_truth_table_fixup",
			Description:   "Fix up the truth table of Look-Up Tables due to pin swapping in packing stage",
			Options:       []catalog.OptionDef{verbose()},
			Prerequisites: []string{"read_openfpga_arch", "vpr"},
			Stage:         catalog.MutatingFunc(OnRunLutTruthTableFixup),
		},
		{
			Name:        "build_fabric",
			Description: "Build the FPGA fabric in a graph of modules",
			Options: []catalog.OptionDef{
				{Name: "compress_routing", Kind: option.Flag, Description: "Compress the number of unique routing modules by identifying the unique GSBs"},
				{Name: "duplicate_grid_pin", Kind: option.Flag, Description: "Duplicate the pins on the same side of a grid"},
				verbose(),
			},
			Prerequisites: []string{"link_openfpga_arch"},
			Stage:         catalog.MutatingFunc(OnRunBuildFabric),
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
