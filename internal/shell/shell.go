// Package shell is the execution engine of the toolchain shell. It resolves a
// command by name, checks that its prerequisites have succeeded earlier in the
// session, binds its options, runs its execute function against the shared
// design context and records the outcome in the session history.
//
// Invocations are strictly serialized: Invoke runs to completion before the
// next one may start, and a call that arrives while another is in flight fails
// with ErrBusy rather than waiting.
package shell

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/specialistvlad/fabricshell/internal/binder"
	"github.com/specialistvlad/fabricshell/internal/catalog"
	"github.com/specialistvlad/fabricshell/internal/ctxlog"
	"github.com/specialistvlad/fabricshell/internal/design"
	"github.com/specialistvlad/fabricshell/internal/history"
)

// Shell runs commands from a catalog against one design context.
type Shell struct {
	catalog   *catalog.Catalog
	design    *design.Context
	history   *history.Log
	sessionID string
	now       func() time.Time
	running   atomic.Bool
}

// Option customizes a Shell.
type Option func(*Shell)

// WithHistory makes the shell record into an existing log.
func WithHistory(l *history.Log) Option {
	return func(s *Shell) { s.history = l }
}

// WithSessionID overrides the generated session identifier.
func WithSessionID(id string) Option {
	return func(s *Shell) { s.sessionID = id }
}

// WithClock replaces time.Now for history timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Shell) { s.now = now }
}

// New creates a shell session over a fully registered catalog. The shell
// takes ownership of d for the lifetime of the session.
func New(cat *catalog.Catalog, d *design.Context, opts ...Option) *Shell {
	s := &Shell{
		catalog:   cat,
		design:    d,
		sessionID: uuid.NewString(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.history == nil {
		s.history = history.New()
	}
	return s
}

// Result describes a completed invocation.
type Result struct {
	Entry      history.Entry
	Invocation *binder.Invocation
}

// SessionID returns the identifier stamped on logs and history feeds.
func (s *Shell) SessionID() string { return s.sessionID }

// History returns the session log.
func (s *Shell) History() *history.Log { return s.history }

// Catalog returns the command catalog the shell dispatches to.
func (s *Shell) Catalog() *catalog.Catalog { return s.catalog }

// InvokeLine splits a shell line into words and invokes the named command.
// An empty line is a no-op that returns (nil, nil).
func (s *Shell) InvokeLine(ctx context.Context, line string) (*Result, error) {
	words, err := binder.SplitLine(line)
	if err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, nil
	}
	return s.InvokeArgs(ctx, words[0], words[1:])
}

// InvokeArgs invokes a command with command-line style option arguments.
func (s *Shell) InvokeArgs(ctx context.Context, name string, args []string) (*Result, error) {
	tokens, err := binder.ParseArgs(args)
	if err != nil {
		return nil, fmt.Errorf("command '%s': %w", name, err)
	}
	return s.Invoke(ctx, name, tokens)
}

// Invoke runs one command. Lookup, ordering and binding failures return before
// the execute function is called and leave the history untouched. Once the
// execute function has run, its outcome is always recorded; a stage failure is
// returned as *ExecutionError together with the result.
func (s *Shell) Invoke(ctx context.Context, name string, tokens []binder.Token) (*Result, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer s.running.Store(false)

	ctx = ctxlog.Attrs(ctx, "session", s.sessionID, "command", name)
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Invocation started.", "tokens", len(tokens))

	id, err := s.catalog.Command(name)
	if err != nil {
		return nil, err
	}
	cmd, err := s.catalog.Get(id)
	if err != nil {
		return nil, err
	}

	if err := s.checkPrerequisites(cmd); err != nil {
		logger.Warn("Command rejected, prerequisites not met.", "error", err)
		return nil, err
	}

	inv, err := binder.Bind(cmd.Options, tokens)
	if err != nil {
		return nil, fmt.Errorf("command '%s': %w", name, err)
	}
	inv.CommandID = int(cmd.ID)
	inv.Command = cmd.Name

	if cmd.Stage == nil {
		return nil, &catalog.Error{Kind: catalog.ErrNoStage, Name: cmd.Name}
	}

	started := s.now()
	stageErr := s.execute(ctx, cmd, inv)
	entry := history.Entry{
		CommandID: int(cmd.ID),
		Command:   cmd.Name,
		Outcome:   history.Succeeded,
		Started:   started,
		Duration:  s.now().Sub(started),
	}
	if stageErr != nil {
		entry.Outcome = history.Failed
		entry.Error = stageErr.Error()
	}
	entry = s.history.Append(entry)
	result := &Result{Entry: entry, Invocation: inv}

	if stageErr != nil {
		logger.Warn("Command failed.", "seq", entry.Seq, "error", stageErr)
		return result, &ExecutionError{Command: cmd.Name, Seq: entry.Seq, Err: stageErr}
	}
	logger.Info("Command succeeded.", "seq", entry.Seq, "duration", entry.Duration)
	return result, nil
}

// checkPrerequisites returns an OrderingError naming every direct
// prerequisite that has not succeeded in this session.
func (s *Shell) checkPrerequisites(cmd *catalog.Command) error {
	prereqs, err := s.catalog.PrerequisitesOf(cmd.ID)
	if err != nil {
		return err
	}
	ids := make([]int, len(prereqs))
	for i, p := range prereqs {
		ids[i] = int(p)
	}
	missing := s.history.Missing(ids)
	if len(missing) == 0 {
		return nil
	}
	names := make([]string, len(missing))
	for i, id := range missing {
		names[i] = s.catalog.Name(catalog.CommandID(id))
	}
	return &OrderingError{Command: cmd.Name, Missing: names}
}

// execute dispatches on the stage variant. A panicking stage is reported as
// a failure of that stage.
func (s *Shell) execute(ctx context.Context, cmd *catalog.Command, inv *binder.Invocation) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("stage panicked: %v", r)
		}
	}()

	switch fn := cmd.Stage.(type) {
	case catalog.MutatingFunc:
		return fn(ctx, s.design, inv)
	case catalog.ReadonlyFunc:
		return fn(ctx, s.design, inv)
	default:
		return errors.New("unsupported stage type")
	}
}
