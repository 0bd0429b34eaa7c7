package engine

import (
	"context"
	"fmt"

	"github.com/deepprep/bidsify/internal/planner"
)

// Rename plans and, when req.Commit is set, executes a dataset rename.
//
// The preview plan is always computed first and handed to req.OnPlan before
// anything on disk changes. On commit, subject directories are renamed first.
// Session operations are then recomputed against the renamed tree and
// executed in ascending subject order. Operations whose destination already
// exists are skipped and the run continues.
//
// A cancelled context or an I/O failure stops the run; the partial result is
// returned alongside the error.
func (e *Engine) Rename(ctx context.Context, req *RenameRequest) (*RenameResult, error) {
	root, err := e.resolveRoot(req.Root)
	if err != nil {
		return nil, err
	}

	result := &RenameResult{
		Root:      root,
		Commit:    req.Commit,
		Steps:     []Step{},
		StartedAt: e.clock.Now(),
	}

	plan, err := planner.PreviewPlan(e.fs, root, req.Direction)
	if err != nil {
		return nil, fmt.Errorf("failed to plan: %w", err)
	}
	result.Plan = plan
	if req.OnPlan != nil {
		req.OnPlan(plan)
	}

	if !req.Commit {
		result.FinishedAt = e.clock.Now()
		return result, nil
	}

	err = e.execute(ctx, root, req, result)
	result.FinishedAt = e.clock.Now()
	return result, err
}

// execute runs the subject pass, then the session pass.
func (e *Engine) execute(ctx context.Context, root string, req *RenameRequest, result *RenameResult) error {
	checker := planner.NewConflictChecker(e.fs)

	subjects, err := planner.PlanSubjects(e.fs, root, req.Direction)
	if err != nil {
		return fmt.Errorf("failed to plan subjects: %w", err)
	}
	if err := e.runOperations(ctx, subjects, checker, req, result); err != nil {
		return err
	}

	sessions, err := planner.ExecutionSessions(e.fs, root, req.Direction)
	if err != nil {
		return fmt.Errorf("failed to plan sessions: %w", err)
	}
	return e.runOperations(ctx, sessions, checker, req, result)
}

func (e *Engine) runOperations(ctx context.Context, ops []planner.Operation, checker *planner.ConflictChecker, req *RenameRequest, result *RenameResult) error {
	for _, op := range ops {
		if err := ctx.Err(); err != nil {
			return err
		}

		step, err := e.executeOperation(op, checker)
		result.Steps = append(result.Steps, step)
		if req.OnStep != nil {
			req.OnStep(step)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
