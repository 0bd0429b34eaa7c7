package planner

import (
	"errors"
	"fmt"
	"os"

	"github.com/deepprep/bidsify/internal/fsops"
)

// ConflictChecker checks whether an operation's destination is already taken.
// Renames never overwrite or merge, so an existing destination always means
// the operation is skipped.
type ConflictChecker struct {
	fs fsops.FS
}

// NewConflictChecker creates a new ConflictChecker.
func NewConflictChecker(fs fsops.FS) *ConflictChecker {
	return &ConflictChecker{fs: fs}
}

// Check returns a Conflict if op cannot run, or nil if the destination is free.
func (c *ConflictChecker) Check(op Operation) *Conflict {
	if op.Source == op.Dest {
		return &Conflict{Op: op, Reason: "source and destination are the same"}
	}

	info, err := c.fs.Stat(op.Dest)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return &Conflict{Op: op, Reason: fmt.Sprintf("failed to check destination: %v", err)}
	}
	if !info.IsDir() {
		return &Conflict{Op: op, Reason: "a file exists at the destination"}
	}

	switch op.Kind {
	case KindSubject:
		return &Conflict{Op: op, Reason: "subject destination already exists"}
	case KindSession:
		return &Conflict{Op: op, Reason: "session destination already exists"}
	default:
		return &Conflict{Op: op, Reason: "destination already exists"}
	}
}

// CheckAll runs Check on every operation and records conflicts on the plan.
func (c *ConflictChecker) CheckAll(plan *Plan) {
	for _, op := range plan.Operations() {
		if conflict := c.Check(op); conflict != nil {
			plan.AddConflict(*conflict)
		}
	}
}
