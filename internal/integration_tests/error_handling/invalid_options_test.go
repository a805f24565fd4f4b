package integration_tests

import (
	"errors"
	"strings"
	"testing"

	"github.com/specialistvlad/fabricshell/internal/binder"
	"github.com/specialistvlad/fabricshell/internal/testutil"
)

// Test for: option errors are reported before the command runs
func TestErrorHandling_InvalidOptions(t *testing.T) {
	testCases := []struct {
		name    string
		line    string
		wantErr error
		wantMsg string
	}{
		{"missing required", "vpr --blocks 2", binder.ErrMissingRequiredOption, "circuit"},
		{"unknown option", "vpr -c and2 --bogus", binder.ErrUnknownOption, "bogus"},
		{"type mismatch", "vpr -c and2 --blocks many", binder.ErrTypeMismatch, "blocks"},
		{"missing value", "vpr -c", binder.ErrMissingValue, "circuit"},
		{"stray argument", "vpr and2", nil, "unexpected argument"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// --- Act ---
			result := testutil.RunScriptTest(t, map[string]string{"flow.fs": tc.line + "\n"}, "flow.fs", false)

			// --- Assert ---
			if result.Err == nil {
				t.Fatal("expected the script to fail")
			}
			if tc.wantErr != nil && !errors.Is(result.Err, tc.wantErr) {
				t.Errorf("expected %v, got: %v", tc.wantErr, result.Err)
			}
			if !strings.Contains(result.Err.Error(), tc.wantMsg) {
				t.Errorf("expected the error to mention %q, got: %v", tc.wantMsg, result.Err)
			}
			for _, e := range result.App.History().Entries() {
				if e.Command != "vpr" {
					t.Errorf("unexpected history entry %v", e)
				}
			}
		})
	}
}
