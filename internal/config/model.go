package config

import (
	"fmt"

	"github.com/specialistvlad/fabricshell/internal/binder"
)

// Script is the unified, format-agnostic representation of a batch script:
// an ordered list of command invocations.
type Script struct {
	Path  string
	Steps []*Step
}

// Step is a single command invocation of a script.
type Step struct {
	Command string
	Tokens  []binder.Token
	// Source locates the step in its file, e.g. "build.fs:3".
	Source string
}

// String renders the step the way it would be typed at the prompt.
func (s *Step) String() string {
	out := s.Command
	for _, t := range s.Tokens {
		out += " " + t.String()
	}
	return out
}

func location(path string, line int) string {
	return fmt.Sprintf("%s:%d", path, line)
}
