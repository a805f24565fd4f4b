package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/specialistvlad/fabricshell/internal/catalog"
	"github.com/specialistvlad/fabricshell/internal/ctxlog"
	"github.com/specialistvlad/fabricshell/internal/design"
	"github.com/specialistvlad/fabricshell/internal/history"
	"github.com/specialistvlad/fabricshell/internal/shell"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW       io.Writer
	logger     *slog.Logger
	config     *Config
	catalog    *catalog.Catalog
	history    *history.Log
	shell      *shell.Shell
	ctx        context.Context
	httpServer *http.Server
}

// NewApp is the constructor for the main application. Command output goes to
// outW and logs to logW. When no modules are given the core modules are
// registered. A registration or validation failure is a programmer error and
// panics.
func NewApp(outW, logW io.Writer, cfg *Config, modules ...catalog.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	log := history.New()
	if len(modules) == 0 {
		modules = CoreModules(outW, log)
	}

	cat := catalog.New()
	for _, mod := range modules {
		if err := mod.Register(cat); err != nil {
			panic(fmt.Errorf("failed to register module %T: %w", mod, err))
		}
	}
	logger.Debug("All modules registered.", "count", len(modules), "commands", len(cat.Commands()))

	if err := cat.Validate(ctx); err != nil {
		panic(err)
	}
	logger.Debug("Catalog validation passed.")

	sh := shell.New(cat, design.New(), shell.WithHistory(log))
	logger.Debug("Shell session created.", "session", sh.SessionID())

	return &App{
		outW:    outW,
		logger:  logger,
		config:  cfg,
		catalog: cat,
		history: log,
		shell:   sh,
		ctx:     ctx,
	}
}

// Catalog returns the application's command catalog. This is primarily for testing.
func (a *App) Catalog() *catalog.Catalog {
	return a.catalog
}

// Shell returns the session the application runs commands in.
func (a *App) Shell() *shell.Shell {
	return a.shell
}

// History returns the session log.
func (a *App) History() *history.Log {
	return a.history
}
