// Package engine provides the core operations behind the bidsify commands.
//
// The engine sits between the CLI and the lower-level packages. It validates
// inputs, asks the planner for renames, executes them in the required order,
// and drives series classification.
//
// Key components:
//   - Engine: holds the filesystem, clock and DICOM scanner
//   - Plan/Execute: two-pass dataset renaming (subjects, then sessions)
//   - Classify: series metadata to BIDS output templates
package engine

import (
	"fmt"
	"path/filepath"

	"github.com/deepprep/bidsify/internal/clock"
	"github.com/deepprep/bidsify/internal/dicomscan"
	"github.com/deepprep/bidsify/internal/fsops"
	"github.com/deepprep/bidsify/internal/planner"
)

// SeriesScanner reads series metadata from a directory of DICOM files.
// Scanning only reads, so it is not routed through the Engine's fsops.FS;
// dicomscan.Scanner walks the local disk directly.
type SeriesScanner interface {
	Scan(dir string) (*dicomscan.Result, error)
}

// Engine orchestrates all bidsify operations.
// It is the main API surface called by the CLI.
type Engine struct {
	fs      fsops.FS
	clock   clock.Clock
	scanner SeriesScanner
}

// New creates a new Engine with the given dependencies.
func New(fs fsops.FS, clk clock.Clock, scanner SeriesScanner) *Engine {
	return &Engine{
		fs:      fs,
		clock:   clk,
		scanner: scanner,
	}
}

// resolveRoot makes root absolute and checks that it is an existing directory.
func (e *Engine) resolveRoot(root string) (string, error) {
	if root == "" {
		return "", fmt.Errorf("%w: root is required", ErrValidation)
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrValidation, err)
	}

	exists, err := e.fs.Exists(abs)
	if err != nil {
		return "", fmt.Errorf("failed to check root: %w", err)
	}
	if !exists {
		return "", fmt.Errorf("%w: %s", ErrRootNotFound, abs)
	}

	isDir, err := e.fs.IsDir(abs)
	if err != nil {
		return "", fmt.Errorf("failed to check root: %w", err)
	}
	if !isDir {
		return "", fmt.Errorf("%w: %s", ErrRootNotDirectory, abs)
	}
	return abs, nil
}

// executeOperation runs one rename unless its destination is taken.
func (e *Engine) executeOperation(op planner.Operation, checker *planner.ConflictChecker) (Step, error) {
	if conflict := checker.Check(op); conflict != nil {
		return Step{Op: op, Status: StepSkipped, Reason: conflict.Reason}, nil
	}

	if op.Kind == planner.KindSession {
		parent := filepath.Dir(op.Dest)
		if err := e.fs.MkdirAll(parent, 0755); err != nil {
			return Step{Op: op, Status: StepFailed, Reason: err.Error()},
				fmt.Errorf("failed to create parent directory %s: %w", parent, err)
		}
	}

	if err := e.fs.Rename(op.Source, op.Dest); err != nil {
		return Step{Op: op, Status: StepFailed, Reason: err.Error()},
			fmt.Errorf("failed to rename %s: %w", op.Source, err)
	}
	return Step{Op: op, Status: StepRenamed}, nil
}
