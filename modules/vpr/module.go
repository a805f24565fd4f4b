package vpr

import (
	"context"
	"fmt"

	"github.com/specialistvlad/fabricshell/internal/binder"
	"github.com/specialistvlad/fabricshell/internal/catalog"
	"github.com/specialistvlad/fabricshell/internal/ctxlog"
	"github.com/specialistvlad/fabricshell/internal/design"
	"github.com/specialistvlad/fabricshell/internal/option"
)

// ClassName is the help class of the place-and-route command.
const ClassName = "VPR"

// Module implements the catalog.Module interface for this package.
type Module struct{}

// OnRunVPR records a packing, placement and routing result for the circuit.
func OnRunVPR(ctx context.Context, d *design.Context, inv *binder.Invocation) error {
	circuit := inv.String("circuit")
	blocks := inv.Int("blocks")
	if blocks < 1 {
		return fmt.Errorf("--blocks must be positive, got %d", blocks)
	}

	d.SetPlaceRoute(design.PlaceRoute{Circuit: circuit, Blocks: blocks})
	ctxlog.FromContext(ctx).Info("Place and route complete.", "circuit", circuit, "blocks", blocks)
	return nil
}

// Register adds the vpr command to the catalog.
func (m *Module) Register(c *catalog.Catalog) error {
	_, err := c.Define(catalog.Definition{
		Name:        "vpr",
		Description: "Pack, place and route a circuit on the target architecture",
		Class:       ClassName,
		Options: []catalog.OptionDef{
			{Name: "circuit", Short: "c", Kind: option.String, Description: "name of the circuit to implement"},
			{Name: "blocks", Kind: option.Int, Default: 1, Description: "number of placed logic blocks"},
		},
		Stage: catalog.MutatingFunc(OnRunVPR),
	})
	return err
}
