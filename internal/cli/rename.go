package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deepprep/bidsify/internal/engine"
	"github.com/deepprep/bidsify/internal/planner"
)

// renameOutput is the --json form of a rename run.
type renameOutput struct {
	*engine.RenameResult
	Renamed int `json:"renamed"`
	Skipped int `json:"skipped"`
}

// runRename drives add and strip: print the root, print the plan, and on
// --commit print every executed or skipped step.
func runRename(cmd *cobra.Command, dir planner.Direction, commit bool) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	root, err := settings.AbsRoot()
	if err != nil {
		return err
	}

	req := &engine.RenameRequest{
		Root:      root,
		Direction: dir,
		Commit:    commit,
	}
	if !jsonOutput {
		req.OnPlan = printPlan
		req.OnStep = printStep
	}

	result, err := newEngine().Rename(context.Background(), req)
	if err != nil {
		return err
	}

	if jsonOutput {
		return outputJSON(renameOutput{
			RenameResult: result,
			Renamed:      result.Count(engine.StepRenamed),
			Skipped:      result.Count(engine.StepSkipped),
		})
	}

	if result.Plan.IsEmpty() {
		return nil
	}
	if !commit {
		PrintDryRun("未进行任何更改。使用 --commit 参数重新运行以应用更改。")
		return nil
	}

	PrintDone(fmt.Sprintf("%s, %s",
		PrintCount(result.Count(engine.StepRenamed), "rename", "renames"),
		PrintCount(result.Count(engine.StepSkipped), "skip", "skips")))
	return nil
}

func printPlan(plan *planner.Plan) {
	PrintRoot(plan.Root)
	if plan.IsEmpty() {
		PrintInfo("无需执行任何操作。")
		return
	}

	conflicts := make(map[planner.Operation]string, len(plan.Conflicts))
	for _, c := range plan.Conflicts {
		conflicts[c.Op] = c.Reason
	}

	PrintPlanHeader()
	for _, op := range plan.Operations() {
		PrintPlanEntry(op.Kind, op.Source, op.Dest, conflicts[op])
	}
}

func printStep(step engine.Step) {
	op := step.Op
	switch step.Status {
	case engine.StepSkipped:
		PrintSkip(fmt.Sprintf("%s: %s", skipLabel(op.Kind), op.Dest))
	case engine.StepRenamed:
		tag := tagSession
		if op.Kind == planner.KindSubject {
			tag = tagSubject
		}
		PrintRenamed(tag, op.Source, op.Dest)
	}
}

func skipLabel(kind string) string {
	if kind == planner.KindSubject {
		return "受试者目标目录已存在"
	}
	return "会话目标目录已存在"
}
