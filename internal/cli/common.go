package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/deepprep/bidsify/internal/clock"
	"github.com/deepprep/bidsify/internal/config"
	"github.com/deepprep/bidsify/internal/dicomscan"
	"github.com/deepprep/bidsify/internal/engine"
	"github.com/deepprep/bidsify/internal/fsops"
)

// newEngine creates a new engine with real implementations of all dependencies.
func newEngine() *engine.Engine {
	return engine.New(fsops.NewRealFS(), clock.RealClock{}, dicomscan.NewScanner())
}

// loadSettings resolves settings for cmd and points the printers at its writers.
func loadSettings(cmd *cobra.Command) (*config.Settings, error) {
	stdout = cmd.OutOrStdout()
	stderr = cmd.ErrOrStderr()
	return config.Resolve(cmd.Flags())
}

// outputJSON outputs a value as JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
