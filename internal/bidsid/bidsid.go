// Package bidsid implements the directory name grammar shared by the rename
// planner: bare numeric ids, sub-<id> subject folders and ses-<id> session
// folders, plus the canonical zero-padded form used as a comparison key.
package bidsid

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	// SubjectPrefix marks a BIDS subject directory.
	SubjectPrefix = "sub-"

	// SessionPrefix marks a BIDS session directory.
	SessionPrefix = "ses-"

	// Width is the canonical id width.
	Width = 2
)

var (
	numericRe = regexp.MustCompile(`^\d+$`)
	subjectRe = regexp.MustCompile(`^sub-(\d+)$`)
	sessionRe = regexp.MustCompile(`^ses-(\d+)$`)
)

// Pad left-pads a numeric id with zeros to Width. Longer ids are returned unchanged.
func Pad(id string) string {
	if len(id) >= Width {
		return id
	}
	return strings.Repeat("0", Width-len(id)) + id
}

// IsNumeric reports whether name is a bare run of digits.
func IsNumeric(name string) bool {
	return numericRe.MatchString(name)
}

// ParseSubject returns the canonical id of a sub-<digits> name.
func ParseSubject(name string) (string, bool) {
	m := subjectRe.FindStringSubmatch(name)
	if m == nil {
		return "", false
	}
	return Pad(m[1]), true
}

// ParseSession returns the canonical id of a ses-<digits> name.
func ParseSession(name string) (string, bool) {
	m := sessionRe.FindStringSubmatch(name)
	if m == nil {
		return "", false
	}
	return Pad(m[1]), true
}

// SubjectID returns the canonical subject id for either a numeric or a
// sub-<digits> directory name.
func SubjectID(name string) (string, bool) {
	if IsNumeric(name) {
		return Pad(name), true
	}
	return ParseSubject(name)
}

// SubjectDir is the BIDS directory name for a subject id.
func SubjectDir(id string) string {
	return SubjectPrefix + Pad(id)
}

// SessionDir is the BIDS directory name for a session id.
func SessionDir(id string) string {
	return SessionPrefix + Pad(id)
}

// Less orders ids by numeric value, falling back to string order for equal
// values ("03" before "3") and for ids too long to parse.
func Less(a, b string) bool {
	na, errA := strconv.ParseUint(a, 10, 64)
	nb, errB := strconv.ParseUint(b, 10, 64)
	if errA == nil && errB == nil && na != nb {
		return na < nb
	}
	if errA == nil && errB == nil {
		return a < b
	}
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}
