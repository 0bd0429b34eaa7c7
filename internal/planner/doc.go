// Package planner computes the directory renames that move a dataset between
// a flat numeric layout (XX/YY) and the BIDS layout (sub-XX/ses-YY).
//
// Planning is pure with respect to the filesystem: it only lists directories
// through fsops.FS and returns operations. Subject renames are planned first;
// session renames depend on the subject directory's final name, so the
// planner exposes two entry points:
//   - PreviewPlan: subjects and sessions against the current tree, for display
//   - ExecutionSessions: sessions re-planned after subject renames have run
//
// The preview's session operations go stale as soon as a subject rename
// executes and must not be executed.
package planner
