package testutil

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/specialistvlad/fabricshell/internal/binder"
	"github.com/specialistvlad/fabricshell/internal/catalog"
	"github.com/specialistvlad/fabricshell/internal/design"
	"github.com/specialistvlad/fabricshell/internal/option"
)

// ExecutionRecord holds the start and end times of one stage call.
type ExecutionRecord struct {
	Command string
	Start   time.Time
	End     time.Time
}

// RecorderModule is a shared, self-contained module for engine tests. It
// registers one mutating command per entry of Names and records every
// successful call.
type RecorderModule struct {
	// Names lists the commands to register, prerequisites first.
	Names []string
	// Deps maps a command to its prerequisites.
	Deps map[string][]string
	// Fail makes the named commands return an error.
	Fail map[string]bool

	mu      sync.Mutex
	records []ExecutionRecord
}

// Register registers a "recorder" command for every name.
func (m *RecorderModule) Register(c *catalog.Catalog) error {
	for _, name := range m.Names {
		_, err := c.Define(catalog.Definition{
			Name:          name,
			Description:   "records its invocation",
			Class:         "Recorder",
			Options:       []catalog.OptionDef{{Name: "tag", Kind: option.String, Optional: true}},
			Prerequisites: m.Deps[name],
			Stage:         catalog.MutatingFunc(m.run),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (m *RecorderModule) run(_ context.Context, d *design.Context, inv *binder.Invocation) error {
	start := time.Now()
	m.mu.Lock()
	fail := m.Fail[inv.Command]
	m.mu.Unlock()
	if fail {
		return errors.New(inv.Command + " failed on purpose")
	}

	d.AddOutput(inv.Command + ":" + inv.String("tag"))
	m.mu.Lock()
	m.records = append(m.records, ExecutionRecord{Command: inv.Command, Start: start, End: time.Now()})
	m.mu.Unlock()
	return nil
}

// SetFail toggles the failure of a command between invocations.
func (m *RecorderModule) SetFail(name string, fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail == nil {
		m.Fail = make(map[string]bool)
	}
	m.Fail[name] = fail
}

// Calls returns the names of the successful calls in order.
func (m *RecorderModule) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.records))
	for i, r := range m.records {
		out[i] = r.Command
	}
	return out
}

// Records returns a copy of every successful call.
func (m *RecorderModule) Records() []ExecutionRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ExecutionRecord(nil), m.records...)
}
