// Package history records the outcome of every command invocation in a shell
// session.
//
// The log is append-only. Alongside it the package keeps the set of commands
// that have succeeded at least once; that set only ever grows, so a failed
// re-run never takes away what an earlier successful run established.
package history

import (
	"slices"
	"sync"
	"time"
)

// Outcome is the result of one invocation.
type Outcome int

const (
	Succeeded Outcome = iota
	Failed
)

func (o Outcome) String() string {
	if o == Succeeded {
		return "succeeded"
	}
	return "failed"
}

// MarshalText renders the outcome by name in JSON payloads.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Entry is one line of the session log.
type Entry struct {
	Seq       int           `json:"seq"`
	CommandID int           `json:"command_id"`
	Command   string        `json:"command"`
	Outcome   Outcome       `json:"outcome"`
	Error     string        `json:"error,omitempty"`
	Started   time.Time     `json:"started"`
	Duration  time.Duration `json:"duration"`
}

// Observer is notified after every append, in append order.
type Observer interface {
	Record(e Entry)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(e Entry)

func (f ObserverFunc) Record(e Entry) { f(e) }

// Log is the history of one session. It is safe for concurrent readers; the
// shell is the only writer.
type Log struct {
	mu        sync.RWMutex
	entries   []Entry
	satisfied map[int]struct{}
	observers []Observer
}

// New returns an empty log.
func New() *Log {
	return &Log{satisfied: make(map[int]struct{})}
}

// Subscribe registers an observer for future appends.
func (l *Log) Subscribe(o Observer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.observers = append(l.observers, o)
}

// Append records an outcome, assigns it the next sequence number and returns
// the stored entry.
func (l *Log) Append(e Entry) Entry {
	l.mu.Lock()
	e.Seq = len(l.entries) + 1
	l.entries = append(l.entries, e)
	if e.Outcome == Succeeded {
		l.satisfied[e.CommandID] = struct{}{}
	}
	observers := slices.Clone(l.observers)
	l.mu.Unlock()

	for _, o := range observers {
		o.Record(e)
	}
	return e
}

// Entries returns a copy of the log in append order.
func (l *Log) Entries() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.entries)
}

// Len returns the number of recorded invocations.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Satisfied reports whether the command has succeeded at least once.
func (l *Log) Satisfied(commandID int) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.satisfied[commandID]
	return ok
}

// SatisfiedSet returns the sorted ids of every command that has succeeded.
func (l *Log) SatisfiedSet() []int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]int, 0, len(l.satisfied))
	for id := range l.satisfied {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// Missing returns the ids from prerequisites that have not succeeded yet,
// preserving their order.
func (l *Log) Missing(prerequisites []int) []int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var missing []int
	for _, id := range prerequisites {
		if _, ok := l.satisfied[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}
