package setup

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/specialistvlad/fabricshell/internal/binder"
	"github.com/specialistvlad/fabricshell/internal/ctxlog"
	"github.com/specialistvlad/fabricshell/internal/design"
)

var errNoArchitecture = errors.New("no OpenFPGA architecture has been read")

// OnRunReadArch loads the architecture file into the design context.
func OnRunReadArch(ctx context.Context, d *design.Context, inv *binder.Invocation) error {
	path := inv.String("file")
	logger := ctxlog.FromContext(ctx).With("file", path)
	logger.Info("Reading OpenFPGA architecture.")

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read architecture: %w", err)
	}
	if len(bytes.TrimSpace(content)) == 0 {
		return fmt.Errorf("architecture file %s is empty", path)
	}

	d.SetArchitecture(design.Architecture{Path: path, Content: content})
	logger.Debug("Architecture loaded.", "bytes", len(content))
	return nil
}

// OnRunWriteArch writes the loaded architecture back to disk. It only reads
// the design context.
func OnRunWriteArch(ctx context.Context, r design.Reader, inv *binder.Invocation) error {
	arch, ok := r.Architecture()
	if !ok {
		return errNoArchitecture
	}
	path := inv.String("file")
	if err := os.WriteFile(path, arch.Content, 0o644); err != nil {
		return fmt.Errorf("failed to write architecture: %w", err)
	}
	ctxlog.FromContext(ctx).Info("Wrote OpenFPGA architecture.", "file", path, "source", arch.Path)
	return nil
}

// OnRunLinkArch binds the loaded architecture to the place-and-route result.
func OnRunLinkArch(ctx context.Context, d *design.Context, inv *binder.Invocation) error {
	if _, ok := d.Architecture(); !ok {
		return errNoArchitecture
	}
	pr, ok := d.PlaceRoute()
	if !ok {
		return errors.New("no place-and-route result to link against")
	}

	activity := inv.String("activity_file")
	info, err := os.Stat(activity)
	if err != nil {
		return fmt.Errorf("failed to open activity file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("activity file %s is a directory", activity)
	}

	d.Link(activity)

	logger := ctxlog.FromContext(ctx)
	logf := logger.Debug
	if inv.Bool("verbose") {
		logf = logger.Info
	}
	logf("Linked architecture to place-and-route result.", "circuit", pr.Circuit, "activity_file", activity)
	return nil
}
