package binder

import (
	"fmt"
	"strings"

	"github.com/mattn/go-shellwords"
)

// Token is one raw `key[=value]` pair from an invocation. Key is the option
// name or short alias without leading dashes.
type Token struct {
	Key      string
	Value    string
	HasValue bool
}

// Flag returns a token with no value.
func Flag(key string) Token {
	return Token{Key: key}
}

// Value returns a token carrying a value.
func Value(key, value string) Token {
	return Token{Key: key, Value: value, HasValue: true}
}

func (t Token) String() string {
	if !t.HasValue {
		return "--" + t.Key
	}
	return fmt.Sprintf("--%s=%s", t.Key, t.Value)
}

// ParseArgs turns command-line style arguments into tokens. It accepts
// `--name`, `--name=value`, `-alias`, `-alias=value` and the space separated
// `--name value` form. A bare word is only valid directly after a key that has
// no inline value.
func ParseArgs(args []string) ([]Token, error) {
	var tokens []Token
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !isKey(arg) {
			return nil, fmt.Errorf("unexpected argument %q: options must start with '-' or '--'", arg)
		}

		key := strings.TrimLeft(arg, "-")
		if key == "" {
			return nil, fmt.Errorf("empty option name in %q", arg)
		}

		if name, value, ok := strings.Cut(key, "="); ok {
			if name == "" {
				return nil, fmt.Errorf("empty option name in %q", arg)
			}
			tokens = append(tokens, Value(name, value))
			continue
		}

		if i+1 < len(args) && !isKey(args[i+1]) {
			tokens = append(tokens, Value(key, args[i+1]))
			i++
			continue
		}
		tokens = append(tokens, Flag(key))
	}
	return tokens, nil
}

// isKey reports whether arg names an option. "-5" and "-" are values.
func isKey(arg string) bool {
	if len(arg) < 2 || arg[0] != '-' {
		return false
	}
	c := arg[1]
	if c == '-' {
		return true
	}
	return !(c >= '0' && c <= '9') && c != '.'
}

// SplitLine breaks a shell line into words using POSIX shell quoting rules.
// An unquoted '#' at the start of a word begins a comment that runs to the
// end of the line.
func SplitLine(line string) ([]string, error) {
	line = strings.TrimSpace(stripComment(line))
	if line == "" {
		return nil, nil
	}
	parser := shellwords.NewParser()
	words, err := parser.Parse(line)
	if err != nil {
		return nil, fmt.Errorf("failed to split command line %q: %w", line, err)
	}
	return words, nil
}

// stripComment cuts line at the first '#' that starts a word outside quotes.
func stripComment(line string) string {
	var quote byte
	escaped := false
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && quote != '\'':
			escaped = true
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '#' && (i == 0 || line[i-1] == ' ' || line[i-1] == '\t'):
			return line[:i]
		}
	}
	return line
}
