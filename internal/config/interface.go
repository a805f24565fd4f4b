package config

import (
	"context"

	"github.com/specialistvlad/fabricshell/internal/option"
)

// Loader is the interface for a format-specific script loader.
type Loader interface {
	// Load reads the script at path and translates it into the
	// format-agnostic model.
	Load(ctx context.Context, path string) (*Script, error)
}

// OptionKinds resolves the declared kind of a command option. Loaders for
// typed formats use it to decide how a value becomes a token.
type OptionKinds interface {
	OptionKind(command, key string) (option.Kind, bool)
}
