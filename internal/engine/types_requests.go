package engine

import "github.com/deepprep/bidsify/internal/planner"

// RenameRequest represents a request to rename a dataset.
type RenameRequest struct {
	// Root is the dataset root directory
	Root string

	// Direction selects adding or stripping the sub-/ses- prefixes
	Direction planner.Direction

	// Commit executes the plan; false is a dry run
	Commit bool

	// OnPlan, if set, is called with the preview before any mutation
	OnPlan func(*planner.Plan)

	// OnStep, if set, is called after every executed or skipped operation
	OnStep func(Step)
}

// ClassifyRequest represents a request to classify imaging series.
type ClassifyRequest struct {
	// SeqInfoPath is a dicominfo.tsv, JSON or YAML series list
	SeqInfoPath string

	// DicomDir is scanned for DICOM files when SeqInfoPath is empty
	DicomDir string

	// RulesPath is a YAML rule file; empty uses the embedded rules
	RulesPath string

	// Subject and Session, when both set, render concrete output paths
	Subject string
	Session string

	// OutPath, if set, receives the heuristic document as JSON
	OutPath string
}
