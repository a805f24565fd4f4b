package config

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/specialistvlad/fabricshell/internal/binder"
	"github.com/specialistvlad/fabricshell/internal/ctxlog"
)

// LineLoader reads scripts written exactly as they would be typed at the
// prompt: one command per line, '#' comments and blank lines ignored.
type LineLoader struct{}

// NewLineLoader creates a plain-text script loader.
func NewLineLoader() *LineLoader {
	return &LineLoader{}
}

// Load implements Loader.
func (l *LineLoader) Load(ctx context.Context, path string) (*Script, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Line script loader started.", "path", path)

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open script: %w", err)
	}
	defer f.Close()

	script := &Script{Path: path}
	scanner := bufio.NewScanner(f)
	for lineNo := 1; scanner.Scan(); lineNo++ {
		words, err := binder.SplitLine(scanner.Text())
		if err != nil {
			return nil, fmt.Errorf("%s: %w", location(path, lineNo), err)
		}
		if len(words) == 0 {
			continue
		}
		tokens, err := binder.ParseArgs(words[1:])
		if err != nil {
			return nil, fmt.Errorf("%s: command '%s': %w", location(path, lineNo), words[0], err)
		}
		script.Steps = append(script.Steps, &Step{
			Command: words[0],
			Tokens:  tokens,
			Source:  location(path, lineNo),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}

	logger.Debug("Line script loaded.", "steps", len(script.Steps))
	return script, nil
}
