package engine

import (
	"time"

	"github.com/deepprep/bidsify/internal/heuristic"
	"github.com/deepprep/bidsify/internal/planner"
	"github.com/deepprep/bidsify/internal/seqinfo"
)

// Step status constants
const (
	StepRenamed = "renamed"
	StepSkipped = "skipped"
	StepFailed  = "failed"
)

// Step is the outcome of one operation during commit.
type Step struct {
	Op     planner.Operation `json:"op"`
	Status string            `json:"status"`
	Reason string            `json:"reason,omitempty"`
}

// RenameResult represents the result of planning and (optionally) executing
// a dataset rename.
type RenameResult struct {
	// Root is the absolute dataset root
	Root string `json:"root"`

	// Commit reports whether execution was requested
	Commit bool `json:"commit"`

	// Plan is the preview computed before any mutation
	Plan *planner.Plan `json:"plan"`

	// Steps lists executed and skipped operations in order (empty on dry run)
	Steps []Step `json:"steps"`

	// StartedAt and FinishedAt bracket the run
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// Count returns the number of steps with the given status.
func (r *RenameResult) Count(status string) int {
	n := 0
	for _, s := range r.Steps {
		if s.Status == status {
			n++
		}
	}
	return n
}

// RenderedPath is a concrete output path for one selected series.
type RenderedPath struct {
	Key      string `json:"key"`
	SeriesID string `json:"series_id"`
	Path     string `json:"path"`
}

// ClassifyResult represents the result of classifying series.
type ClassifyResult struct {
	// Source is the file or directory the series came from
	Source string `json:"source"`

	// Records are the series that were classified
	Records []seqinfo.Record `json:"records"`

	// Info holds the per-series decisions and per-key selections
	Info *heuristic.Info `json:"-"`

	// Document is the heuristic handed to the converter
	Document heuristic.Document `json:"heuristic"`

	// Rendered lists concrete paths when a subject and session were given
	Rendered []RenderedPath `json:"rendered,omitempty"`

	// Skipped lists files under DicomDir that were not DICOM
	Skipped []string `json:"skipped,omitempty"`

	// Written is the path the document was written to, if any
	Written string `json:"written,omitempty"`
}
