package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/specialistvlad/fabricshell/internal/ctxlog"
	"github.com/specialistvlad/fabricshell/internal/historyfeed"
)

// Prompt is printed before every interactive line.
const Prompt = "fabricshell> "

// Run executes the main application logic: the batch script if one is
// configured, then the interactive prompt reading from in.
func (a *App) Run(ctx context.Context, in io.Reader) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.ctx = ctx
	a.logger.Debug("App.Run method started.")

	a.healthCheckServer()
	defer a.closeHealthCheckServer()

	if a.config.HistoryFeedURL != "" {
		feed, err := historyfeed.Connect(ctx, a.feedOptions(), a.shell.SessionID())
		if err != nil {
			return err
		}
		defer feed.Close()
		a.history.Subscribe(feed)
	}

	if a.config.ScriptPath != "" {
		if err := a.RunScript(ctx, a.config.ScriptPath); err != nil {
			return err
		}
	}
	if a.config.Interactive {
		return a.RunInteractive(ctx, in)
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

func (a *App) feedOptions() historyfeed.Options {
	return historyfeed.Options{
		URL:                a.config.HistoryFeedURL,
		Namespace:          a.config.FeedNamespace,
		InsecureSkipVerify: a.config.FeedInsecure,
	}
}

// RunScript loads and executes a batch script step by step. The run stops at
// the first failing step unless KeepGoing is set, in which case every failure
// is collected and returned together at the end.
func (a *App) RunScript(ctx context.Context, path string) error {
	logger := ctxlog.FromContext(ctx).With("script", path)

	script, err := a.LoadScript(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to load script: %w", err)
	}

	logger.Info("🚀 Starting script...", "steps", len(script.Steps))
	var errs []error
	for _, step := range script.Steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := a.shell.Invoke(ctx, step.Command, step.Tokens); err != nil {
			err = fmt.Errorf("%s: %w", step.Source, err)
			if !a.config.KeepGoing {
				logger.Error("Script aborted.", "source", step.Source, "error", err)
				return err
			}
			logger.Error("Step failed, continuing.", "source", step.Source, "error", err)
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("script finished with %d failed step(s): %w", len(errs), errors.Join(errs...))
	}
	logger.Info("🏁 Script finished.")
	return nil
}

// RunInteractive reads shell lines from in until EOF, exit or quit. Command
// errors are printed and the session continues.
func (a *App) RunInteractive(ctx context.Context, in io.Reader) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Interactive session started.", "session", a.shell.SessionID())

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(a.outW, Prompt)
		if !scanner.Scan() {
			fmt.Fprintln(a.outW)
			break
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "exit" || line == "quit" {
			break
		}
		if _, err := a.shell.InvokeLine(ctx, line); err != nil {
			fmt.Fprintf(a.outW, "Error: %v\n", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	logger.Debug("Interactive session finished.", "commands", a.history.Len())
	return nil
}
