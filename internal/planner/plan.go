package planner

import "fmt"

// Direction selects the naming convention a plan converges on.
type Direction int

const (
	// AddPrefix renames XX/YY to sub-XX/ses-YY.
	AddPrefix Direction = iota

	// StripPrefix renames sub-XX/ses-YY to XX/YY.
	StripPrefix
)

// String returns the CLI name of the direction.
func (d Direction) String() string {
	switch d {
	case AddPrefix:
		return "add"
	case StripPrefix:
		return "strip"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// MarshalText encodes the direction by name.
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Plan is the full set of renames for one dataset root.
type Plan struct {
	// Root is the absolute dataset root
	Root string `json:"root"`

	// Direction is the target naming convention
	Direction Direction `json:"direction"`

	// Subjects are the subject-level renames, in execution order
	Subjects []Operation `json:"subjects"`

	// Sessions are the session-level renames, in execution order
	Sessions []Operation `json:"sessions"`

	// Conflicts lists operations whose destination already exists
	Conflicts []Conflict `json:"conflicts"`
}

// Operation is a single planned directory rename.
type Operation struct {
	// Kind is KindSubject or KindSession
	Kind string `json:"kind"`

	// Source is the absolute path being moved
	Source string `json:"source"`

	// Dest is the absolute destination path
	Dest string `json:"dest"`

	// SubjectID is the canonical subject id
	SubjectID string `json:"subject"`

	// SessionID is the canonical session id (empty for subject renames)
	SessionID string `json:"session,omitempty"`
}

// Conflict describes an operation that would be skipped.
type Conflict struct {
	// Op is the operation that collides
	Op Operation `json:"op"`

	// Reason is a human-readable explanation of the conflict
	Reason string `json:"reason"`
}

// Operation kind constants
const (
	KindSubject = "SUB"
	KindSession = "SES"
)

// NewPlan creates a new empty Plan.
func NewPlan(root string, dir Direction) *Plan {
	return &Plan{
		Root:      root,
		Direction: dir,
		Subjects:  []Operation{},
		Sessions:  []Operation{},
		Conflicts: []Conflict{},
	}
}

// Operations returns subject renames followed by session renames.
func (p *Plan) Operations() []Operation {
	ops := make([]Operation, 0, len(p.Subjects)+len(p.Sessions))
	ops = append(ops, p.Subjects...)
	return append(ops, p.Sessions...)
}

// IsEmpty returns true if there is nothing to rename.
func (p *Plan) IsEmpty() bool {
	return len(p.Subjects) == 0 && len(p.Sessions) == 0
}

// HasConflicts returns true if the plan has any conflicts.
func (p *Plan) HasConflicts() bool {
	return len(p.Conflicts) > 0
}

// AddConflict adds a conflict to the plan.
func (p *Plan) AddConflict(conflict Conflict) {
	p.Conflicts = append(p.Conflicts, conflict)
}
