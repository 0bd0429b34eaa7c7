package planner

import (
	"path/filepath"
	"sort"

	"github.com/deepprep/bidsify/internal/bidsid"
	"github.com/deepprep/bidsify/internal/fsops"
)

// candidate is a directory whose name matched the grammar for the current
// direction. raw holds the digits as written, id the canonical form.
type candidate struct {
	name string
	raw  string
	id   string
}

// sortCandidates orders by numeric value, so that the canonical spelling of
// an id ("03") is visited before a shorter one ("3").
func sortCandidates(cs []candidate) {
	sort.SliceStable(cs, func(i, j int) bool {
		if cs[i].raw != cs[j].raw {
			return bidsid.Less(cs[i].raw, cs[j].raw)
		}
		return cs[i].name < cs[j].name
	})
}

// PlanSubjects plans subject-level renames directly under root.
//
// AddPrefix maps every numeric directory to sub-<padded>; StripPrefix maps
// every sub-<digits> directory to <padded>. When several spellings share one
// canonical id, only the first is planned.
func PlanSubjects(fs fsops.FS, root string, dir Direction) ([]Operation, error) {
	names, err := fsops.ListDirs(fs, root)
	if err != nil {
		return nil, err
	}

	var cs []candidate
	for _, name := range names {
		switch dir {
		case AddPrefix:
			if bidsid.IsNumeric(name) {
				cs = append(cs, candidate{name: name, raw: name, id: bidsid.Pad(name)})
			}
		case StripPrefix:
			if id, ok := bidsid.ParseSubject(name); ok {
				cs = append(cs, candidate{name: name, raw: name[len(bidsid.SubjectPrefix):], id: id})
			}
		}
	}
	sortCandidates(cs)

	ops := []Operation{}
	seen := make(map[string]bool)
	for _, c := range cs {
		if seen[c.id] {
			continue
		}
		seen[c.id] = true

		src := filepath.Join(root, c.name)
		dst := filepath.Join(root, subjectDirName(c.id, dir))
		if src == dst {
			continue
		}
		ops = append(ops, Operation{
			Kind:      KindSubject,
			Source:    src,
			Dest:      dst,
			SubjectID: c.id,
		})
	}
	return ops, nil
}

// SubjectIDs returns the canonical ids of every numeric and sub-<digits>
// directory under root, sorted by numeric value.
func SubjectIDs(fs fsops.FS, root string) ([]string, error) {
	names, err := fsops.ListDirs(fs, root)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	ids := []string{}
	for _, name := range names {
		id, ok := bidsid.SubjectID(name)
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return bidsid.Less(ids[i], ids[j]) })
	return ids, nil
}

// subjectParents returns the root directories that hold sessions for
// subjectID, split into sub-<id> spellings and bare numeric ones, canonical
// spelling first within each. Both forms coexist while a dataset is half
// converted.
func subjectParents(fs fsops.FS, root, subjectID string) (prefixed, numeric []string, err error) {
	names, err := fsops.ListDirs(fs, root)
	if err != nil {
		return nil, nil, err
	}

	var pcs, ncs []candidate
	for _, name := range names {
		if id, ok := bidsid.ParseSubject(name); ok && id == subjectID {
			pcs = append(pcs, candidate{name: name, raw: name[len(bidsid.SubjectPrefix):], id: id})
			continue
		}
		if bidsid.IsNumeric(name) && bidsid.Pad(name) == subjectID {
			ncs = append(ncs, candidate{name: name, raw: name, id: subjectID})
		}
	}
	sortCandidates(pcs)
	sortCandidates(ncs)

	for _, c := range pcs {
		prefixed = append(prefixed, filepath.Join(root, c.name))
	}
	for _, c := range ncs {
		numeric = append(numeric, filepath.Join(root, c.name))
	}
	return prefixed, numeric, nil
}

// PlanSessionsUnderSubject plans session-level renames for one canonical
// subject id.
//
// Every parent spelling of the subject is scanned for session directories
// (numeric for AddPrefix, ses-<digits> for StripPrefix). Each canonical
// session id is planned once; later duplicates are dropped.
//
// AddPrefix moves sessions to root/sub-XX/ses-YY. StripPrefix moves them into
// the subject's existing numeric directory (canonical spelling first, so an
// unpadded "1" is kept when it is the only one) and falls back to root/XX.
func PlanSessionsUnderSubject(fs fsops.FS, root, subjectID string, dir Direction) ([]Operation, error) {
	subjectID = bidsid.Pad(subjectID)

	prefixed, numeric, err := subjectParents(fs, root, subjectID)
	if err != nil {
		return nil, err
	}
	parents := append(prefixed, numeric...)

	destParent := filepath.Join(root, subjectDirName(subjectID, dir))
	if dir == StripPrefix && len(numeric) > 0 {
		destParent = numeric[0]
	}

	ops := []Operation{}
	seen := make(map[string]bool)
	for _, parent := range parents {
		names, err := fsops.ListDirs(fs, parent)
		if err != nil {
			return nil, err
		}

		var cs []candidate
		for _, name := range names {
			switch dir {
			case AddPrefix:
				if bidsid.IsNumeric(name) {
					cs = append(cs, candidate{name: name, raw: name, id: bidsid.Pad(name)})
				}
			case StripPrefix:
				if id, ok := bidsid.ParseSession(name); ok {
					cs = append(cs, candidate{name: name, raw: name[len(bidsid.SessionPrefix):], id: id})
				}
			}
		}
		sortCandidates(cs)

		for _, c := range cs {
			if seen[c.id] {
				continue
			}
			seen[c.id] = true

			src := filepath.Join(parent, c.name)
			dst := filepath.Join(destParent, sessionDirName(c.id, dir))
			if src == dst {
				continue
			}
			ops = append(ops, Operation{
				Kind:      KindSession,
				Source:    src,
				Dest:      dst,
				SubjectID: subjectID,
				SessionID: c.id,
			})
		}
	}
	return ops, nil
}

// planAllSessions plans sessions for every subject id in numeric order.
func planAllSessions(fs fsops.FS, root string, dir Direction) ([]Operation, error) {
	ids, err := SubjectIDs(fs, root)
	if err != nil {
		return nil, err
	}

	ops := []Operation{}
	for _, id := range ids {
		sessionOps, err := PlanSessionsUnderSubject(fs, root, id, dir)
		if err != nil {
			return nil, err
		}
		ops = append(ops, sessionOps...)
	}
	return ops, nil
}

// PreviewPlan plans subjects and sessions against the current tree and flags
// operations whose destination already exists. It is meant for display: its
// session operations assume subject directories keep their current names.
func PreviewPlan(fs fsops.FS, root string, dir Direction) (*Plan, error) {
	plan := NewPlan(root, dir)

	subjects, err := PlanSubjects(fs, root, dir)
	if err != nil {
		return nil, err
	}
	plan.Subjects = subjects

	sessions, err := planAllSessions(fs, root, dir)
	if err != nil {
		return nil, err
	}
	plan.Sessions = sessions

	NewConflictChecker(fs).CheckAll(plan)
	return plan, nil
}

// ExecutionSessions re-plans session renames against the current tree. Call
// it after subject renames have been executed; its result is authoritative.
func ExecutionSessions(fs fsops.FS, root string, dir Direction) ([]Operation, error) {
	return planAllSessions(fs, root, dir)
}

func subjectDirName(id string, dir Direction) string {
	if dir == AddPrefix {
		return bidsid.SubjectDir(id)
	}
	return bidsid.Pad(id)
}

func sessionDirName(id string, dir Direction) string {
	if dir == AddPrefix {
		return bidsid.SessionDir(id)
	}
	return bidsid.Pad(id)
}
