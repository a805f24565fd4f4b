package app

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/fabricshell/internal/config"
	"github.com/specialistvlad/fabricshell/internal/ctxlog"
	"github.com/specialistvlad/fabricshell/internal/hcl_adapter"
)

// loaderFor picks the script loader by file extension: HCL for .hcl, plain
// shell lines for everything else.
func (a *App) loaderFor(path string) config.Loader {
	if strings.EqualFold(filepath.Ext(path), ".hcl") {
		return hcl_adapter.NewLoader(a.catalog)
	}
	return config.NewLineLoader()
}

// LoadScript reads a batch script into the format-agnostic model.
func (a *App) LoadScript(ctx context.Context, path string) (*config.Script, error) {
	loader := a.loaderFor(path)
	ctxlog.FromContext(ctx).Debug("Loading script...", "path", path, "loader", loaderName(loader))

	script, err := loader.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	ctxlog.FromContext(ctx).Info("Script loaded.", "path", path, "steps", len(script.Steps))
	return script, nil
}

func loaderName(l config.Loader) string {
	if _, ok := l.(*hcl_adapter.Loader); ok {
		return "hcl"
	}
	return "lines"
}
