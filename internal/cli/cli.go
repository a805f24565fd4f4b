package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"

	"github.com/caarlos0/env/v11"
	"github.com/specialistvlad/fabricshell/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// envDefaults holds the flag defaults that can be set from the environment.
type envDefaults struct {
	LogLevel        string `env:"FABRICSHELL_LOG_LEVEL" envDefault:"info"`
	LogFormat       string `env:"FABRICSHELL_LOG_FORMAT" envDefault:"text"`
	HealthcheckPort int    `env:"FABRICSHELL_HEALTHCHECK_PORT" envDefault:"0"`
	HistoryFeed     string `env:"FABRICSHELL_HISTORY_FEED"`
	FeedNamespace   string `env:"FABRICSHELL_HISTORY_FEED_NAMESPACE"`
	FeedInsecure    bool   `env:"FABRICSHELL_HISTORY_FEED_INSECURE"`
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")

	var defaults envDefaults
	if err := env.Parse(&defaults); err != nil {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("parse env: %v", err)}
	}

	flagSet := flag.NewFlagSet("fabricshell", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
fabricshell - An interactive and batch shell for the FPGA fabric toolchain.

Usage:
  fabricshell [options] [SCRIPT]

Arguments:
  SCRIPT
    Path to a batch script: an .hcl file of command blocks, or a plain file
    with one shell command per line. Without a script the shell is interactive.

Options:
`)
		flagSet.PrintDefaults()
	}

	scriptFlag := flagSet.String("script", "", "Path to the batch script.")
	fFlag := flagSet.String("f", "", "Path to the batch script (shorthand).")
	interactiveFlag := flagSet.Bool("interactive", false, "Open the prompt after the script finishes.")
	iFlag := flagSet.Bool("i", false, "Open the prompt after the script finishes (shorthand).")
	keepGoingFlag := flagSet.Bool("keep-going", false, "Continue a batch script after a failed command.")
	healthPortFlag := flagSet.Int("healthcheck-port", defaults.HealthcheckPort, "Port for the HTTP health check server. 0 is disabled. (env FABRICSHELL_HEALTHCHECK_PORT)")
	logFormatFlag := flagSet.String("log-format", defaults.LogFormat, "Log output format. Options: 'text' or 'json'. (env FABRICSHELL_LOG_FORMAT)")
	logLevelFlag := flagSet.String("log-level", defaults.LogLevel, "Set the logging level. Options: 'debug', 'info', 'warn', 'error'. (env FABRICSHELL_LOG_LEVEL)")
	historyFeedFlag := flagSet.String("history-feed", defaults.HistoryFeed, "socket.io URL to publish the session history to. (env FABRICSHELL_HISTORY_FEED)")
	feedNamespaceFlag := flagSet.String("history-feed-namespace", defaults.FeedNamespace, "socket.io namespace of the history feed. (env FABRICSHELL_HISTORY_FEED_NAMESPACE)")
	feedInsecureFlag := flagSet.Bool("history-feed-insecure", defaults.FeedInsecure, "Skip TLS certificate verification for the history feed. (env FABRICSHELL_HISTORY_FEED_INSECURE)")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	if flagSet.NArg() > 1 {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("unexpected arguments: %v", flagSet.Args()[1:])}
	}
	var paths []string
	for _, p := range []string{*scriptFlag, *fFlag, flagSet.Arg(0)} {
		if p != "" {
			paths = append(paths, p)
		}
	}
	if len(paths) > 1 {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("script given more than once: %v", paths)}
	}
	path := ""
	if len(paths) == 1 {
		path = paths[0]
	}
	slog.Debug("Script path determined.", "path", path)

	config, err := app.NewConfig(app.Config{
		ScriptPath:      path,
		Interactive:     *interactiveFlag || *iFlag,
		KeepGoing:       *keepGoingFlag,
		LogFormat:       *logFormatFlag,
		LogLevel:        *logLevelFlag,
		HealthcheckPort: *healthPortFlag,
		HistoryFeedURL:  *historyFeedFlag,
		FeedNamespace:   *feedNamespaceFlag,
		FeedInsecure:    *feedInsecureFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
