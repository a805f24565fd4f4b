package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/specialistvlad/fabricshell/internal/app"
	"github.com/specialistvlad/fabricshell/internal/catalog"
	"github.com/stretchr/testify/require"
)

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	Output    string
	LogOutput string
	Err       error
	App       *app.App
	// Dir is the temporary directory the files were written to.
	Dir string
}

// WriteFiles writes files, keyed by path relative to a fresh temporary
// directory, and returns that directory. The string "$DIR" in any content is
// replaced by the directory path.
func WriteFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		content = strings.ReplaceAll(content, "$DIR", dir)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

// RunScriptTest provides a standardized harness for running a batch script
// through the full application. files must contain the script under the name
// given by script. With no modules the core modules are used.
func RunScriptTest(t *testing.T, files map[string]string, script string, keepGoing bool, modules ...catalog.Module) *HarnessResult {
	t.Helper()
	return RunScriptTestWithContext(context.Background(), t, files, script, keepGoing, modules...)
}

// RunScriptTestWithContext is RunScriptTest with a caller-provided context.
func RunScriptTestWithContext(ctx context.Context, t *testing.T, files map[string]string, script string, keepGoing bool, modules ...catalog.Module) *HarnessResult {
	t.Helper()

	dir := WriteFiles(t, files)
	cfg, err := app.NewConfig(app.Config{
		ScriptPath: filepath.Join(dir, script),
		KeepGoing:  keepGoing,
		LogLevel:   "debug",
		LogFormat:  "text",
	})
	require.NoError(t, err)

	out, logs := &app.SafeBuffer{}, &app.SafeBuffer{}

	var testApp *app.App
	var panicErr any
	func() {
		defer func() {
			if r := recover(); r != nil {
				panicErr = r
			}
		}()
		testApp = app.NewApp(out, logs, cfg, modules...)
	}()

	if panicErr != nil {
		return &HarnessResult{
			Output:    out.String(),
			LogOutput: logs.String(),
			Err:       fmt.Errorf("application startup panicked | %v", panicErr),
			Dir:       dir,
		}
	}

	runErr := testApp.Run(ctx, strings.NewReader(""))

	if os.Getenv("FABRICSHELL_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
	}

	return &HarnessResult{
		Output:    out.String(),
		LogOutput: logs.String(),
		Err:       runErr,
		App:       testApp,
		Dir:       dir,
	}
}
