// Package config resolves bidsify settings.
//
// Each setting comes from, in order of precedence, an explicitly set command
// line flag, an environment variable, or the built-in default:
//   - root:  --root,  BIDSIFY_ROOT  (default ./dataset)
//   - rules: --rules, BIDSIFY_RULES (default: embedded rule set)
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
)

const (
	// EnvRoot overrides the dataset root.
	EnvRoot = "BIDSIFY_ROOT"

	// EnvRules points at a YAML rule file for the classifier.
	EnvRules = "BIDSIFY_RULES"

	// DefaultRoot is the dataset root used when nothing else is given.
	DefaultRoot = "./dataset"
)

// Settings are the resolved settings for one invocation.
type Settings struct {
	// Root is the dataset root as given (not yet made absolute)
	Root string

	// RulesFile is the classifier rule file, empty for the embedded rules
	RulesFile string
}

// Resolve builds Settings from flags, the environment and defaults. Flags
// the set does not define are ignored.
func Resolve(flags *pflag.FlagSet) (*Settings, error) {
	s := &Settings{
		Root:      DefaultRoot,
		RulesFile: "",
	}

	if v := os.Getenv(EnvRoot); v != "" {
		s.Root = v
	}
	if v := os.Getenv(EnvRules); v != "" {
		s.RulesFile = v
	}

	if flags != nil {
		if err := override(flags, "root", &s.Root); err != nil {
			return nil, err
		}
		if err := override(flags, "rules", &s.RulesFile); err != nil {
			return nil, err
		}
	}

	if s.Root == "" {
		return nil, fmt.Errorf("dataset root must not be empty")
	}
	return s, nil
}

func override(flags *pflag.FlagSet, name string, dst *string) error {
	f := flags.Lookup(name)
	if f == nil || !f.Changed {
		return nil
	}
	v, err := flags.GetString(name)
	if err != nil {
		return fmt.Errorf("failed to read --%s: %w", name, err)
	}
	*dst = v
	return nil
}

// AbsRoot returns the root as a cleaned absolute path.
func (s *Settings) AbsRoot() (string, error) {
	abs, err := filepath.Abs(s.Root)
	if err != nil {
		return "", fmt.Errorf("failed to resolve root %q: %w", s.Root, err)
	}
	return abs, nil
}
