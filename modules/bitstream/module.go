package bitstream

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/specialistvlad/fabricshell/internal/binder"
	"github.com/specialistvlad/fabricshell/internal/catalog"
	"github.com/specialistvlad/fabricshell/internal/ctxlog"
	"github.com/specialistvlad/fabricshell/internal/design"
	"github.com/specialistvlad/fabricshell/internal/option"
)

// ClassName is the help class shared by every command in this package.
const ClassName = "FPGA-Bitstream"

// BitsPerModule is the configuration width of one fabric module.
const BitsPerModule = 8

// Module implements the catalog.Module interface for this package. It
// requires build_fabric to be registered first.
type Module struct{}

func verboseLogger(ctx context.Context, inv *binder.Invocation) func(string, ...any) {
	logger := ctxlog.FromContext(ctx)
	if inv.Bool("verbose") {
		return logger.Info
	}
	return logger.Debug
}

// OnRunRepack packs the physical programmable logic blocks of the fabric.
func OnRunRepack(ctx context.Context, d *design.Context, inv *binder.Invocation) error {
	fabric, ok := d.Fabric()
	if !ok {
		return errors.New("no fabric has been built")
	}
	d.SetRepacked()
	verboseLogger(ctx, inv)("Repacked physical blocks.", "modules", fabric.Modules)
	return nil
}

// OnRunFPGABitstream builds the fabric-independent bitstream and writes it
// to --file, one module per line.
func OnRunFPGABitstream(ctx context.Context, d *design.Context, inv *binder.Invocation) error {
	if !d.Repacked() {
		return errors.New("physical blocks have not been repacked")
	}
	fabric, ok := d.Fabric()
	if !ok {
		return errors.New("no fabric has been built")
	}

	path := inv.String("file")
	if err := writeBitstream(path, fabric.Modules); err != nil {
		return fmt.Errorf("failed to write bitstream: %w", err)
	}

	b := design.Bitstream{Bits: fabric.Modules * BitsPerModule}
	d.SetBitstream(b)
	d.AddOutput(path)
	verboseLogger(ctx, inv)("Bitstream generated.", "file", path, "bits", b.Bits)
	return nil
}

func writeBitstream(path string, modules int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	for i := range modules {
		fmt.Fprintf(w, "module_%d %0*b\n", i, BitsPerModule, i%(1<<BitsPerModule))
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// OnRunBuildFabricBitstream reorganizes the bitstream in the sequence of the
// built fabric.
func OnRunBuildFabricBitstream(ctx context.Context, d *design.Context, inv *binder.Invocation) error {
	b, ok := d.Bitstream()
	if !ok {
		return errors.New("no bitstream has been generated")
	}
	b.FabricOrdered = true
	d.SetBitstream(b)
	verboseLogger(ctx, inv)("Fabric bitstream built.", "bits", b.Bits)
	return nil
}

// Register adds the bitstream commands to the catalog.
func (m *Module) Register(c *catalog.Catalog) error {
	verbose := catalog.OptionDef{Name: "verbose", Kind: option.Flag, Description: "Enable verbose output"}
	defs := []catalog.Definition{
		{
			Name:          "repack",
			Description:   "Pack physical programmable logic blocks",
			Options:       []catalog.OptionDef{verbose},
			Prerequisites: []string{"build_fabric"},
			Stage:         catalog.MutatingFunc(OnRunRepack),
		},
		{
			Name:        "fpga_bitstream",
			Description: "Build and output a fabric-independent bitstream database",
			Options: []catalog.OptionDef{
				{Name: "file", Short: "f", Kind: option.String, Description: "file path to output the bitstream database"},
				verbose,
			},
			Prerequisites: []string{"repack"},
			Stage:         catalog.MutatingFunc(OnRunFPGABitstream),
		},
		{
			Name:          "build_fabric_bitstream",
			Description:   "Reorganize the fabric-independent bitstream for the FPGA fabric created by FPGA-Verilog",
			Options:       []catalog.OptionDef{verbose},
			Prerequisites: []string{"fpga_bitstream"},
			Stage:         catalog.MutatingFunc(OnRunBuildFabricBitstream),
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
