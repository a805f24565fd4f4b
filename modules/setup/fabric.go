package setup

import (
	"context"
	"errors"

	"github.com/specialistvlad/fabricshell/internal/binder"
	"github.com/specialistvlad/fabricshell/internal/ctxlog"
	"github.com/specialistvlad/fabricshell/internal/design"
)

// Each grid tile carries one switch block and two connection blocks.
const routingModulesPerTile = 3

// OnRunBuildFabric builds the module graph of the fabric from the linked
// architecture. Rebuilding discards any bitstream derived from the old fabric.
func OnRunBuildFabric(ctx context.Context, d *design.Context, inv *binder.Invocation) error {
	if !d.Linked() {
		return errors.New("architecture is not linked")
	}
	pr, ok := d.PlaceRoute()
	if !ok {
		return errors.New("no place-and-route result to build from")
	}

	fabric := design.Fabric{
		CompressRouting:  inv.Bool("compress_routing"),
		DuplicateGridPin: inv.Bool("duplicate_grid_pin"),
		Modules:          CountModules(pr.Blocks, inv.Bool("compress_routing"), inv.Bool("duplicate_grid_pin")),
	}
	d.SetFabric(fabric)

	logger := ctxlog.FromContext(ctx)
	logf := logger.Debug
	if inv.Bool("verbose") {
		logf = logger.Info
	}
	logf("Fabric built.",
		"modules", fabric.Modules,
		"compress_routing", fabric.CompressRouting,
		"duplicate_grid_pin", fabric.DuplicateGridPin,
	)
	return nil
}

// CountModules returns the number of modules in a fabric of the given size.
// Compressed routing keeps a single copy of each unique routing block.
// Duplicated grid pins add one pin wrapper per grid.
func CountModules(blocks int, compressRouting, duplicateGridPin bool) int {
	grids := blocks
	routing := blocks * routingModulesPerTile
	if compressRouting {
		routing = min(routing, routingModulesPerTile)
	}
	modules := grids + routing
	if duplicateGridPin {
		modules += grids
	}
	return modules
}
