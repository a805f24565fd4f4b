package testutil

import (
	"testing"

	"github.com/specialistvlad/fabricshell/internal/history"
	"github.com/stretchr/testify/require"
)

// AssertCommandRan checks the session history within a HarnessResult to
// confirm that a command has been recorded with the given outcome.
func AssertCommandRan(t *testing.T, result *HarnessResult, command string, outcome history.Outcome) {
	t.Helper()
	require.NotNil(t, result.App, "application did not start")

	for _, e := range result.App.History().Entries() {
		if e.Command == command && e.Outcome == outcome {
			return
		}
	}
	require.Failf(t, "command not recorded",
		"expected '%s' to be recorded as %s, history: %v", command, outcome, result.App.History().Entries())
}

// Commands returns the command names of the session history in order.
func Commands(result *HarnessResult) []string {
	if result.App == nil {
		return nil
	}
	var out []string
	for _, e := range result.App.History().Entries() {
		out = append(out, e.Command)
	}
	return out
}
