package heuristic

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"gopkg.in/yaml.v3"

	"github.com/deepprep/bidsify/internal/seqinfo"
)

//go:embed default_rules.yaml
var defaultRules []byte

// ErrInvalidRules is returned when a rule file fails validation.
var ErrInvalidRules = errors.New("invalid rule set")

// IntendedForOptions tells the converter how to fill IntendedFor in fieldmap
// sidecars: fieldmaps point at the functional runs of the same session that
// match them best on these acquisition parameters.
type IntendedForOptions struct {
	MatchingParameters []string `json:"matching_parameters" yaml:"matching_parameters"`
	Criterion          string   `json:"criterion" yaml:"criterion"`
}

// DefaultIntendedFor matches on shim settings and imaging volume, closest wins.
func DefaultIntendedFor() IntendedForOptions {
	return IntendedForOptions{
		MatchingParameters: []string{"Shims", "ImagingVolume"},
		Criterion:          "Closest",
	}
}

// Dim4Condition constrains the number of volumes in a series. Unset bounds
// and an empty In list match anything.
type Dim4Condition struct {
	Min *int  `json:"min,omitempty" yaml:"min"`
	Max *int  `json:"max,omitempty" yaml:"max"`
	In  []int `json:"in,omitempty" yaml:"in"`
}

// Match reports whether n satisfies the condition.
func (c Dim4Condition) Match(n int) bool {
	if c.Min != nil && n < *c.Min {
		return false
	}
	if c.Max != nil && n > *c.Max {
		return false
	}
	if len(c.In) == 0 {
		return true
	}
	for _, v := range c.In {
		if v == n {
			return true
		}
	}
	return false
}

// Rule assigns a series to Key when its protocol name contains any of
// ProtocolContains (case-insensitively) and its volume count satisfies Dim4.
// Dim4Default stands in for an unknown (zero) volume count.
type Rule struct {
	Key              string        `json:"key" yaml:"key"`
	Label            string        `json:"label" yaml:"label"`
	ProtocolContains []string      `json:"protocol_contains" yaml:"protocol_contains"`
	Dim4             Dim4Condition `json:"dim4" yaml:"dim4"`
	Dim4Default      int           `json:"dim4_default" yaml:"dim4_default"`
}

// Match reports whether rec satisfies the rule.
func (r Rule) Match(rec seqinfo.Record) bool {
	name := fold(rec.ProtocolName)

	found := false
	for _, needle := range r.ProtocolContains {
		if strings.Contains(name, needle) {
			found = true
			break
		}
	}
	if !found {
		return false
	}

	dim4 := rec.Dim4
	if dim4 == 0 {
		dim4 = r.Dim4Default
	}
	return r.Dim4.Match(dim4)
}

// RuleSet is a complete heuristic: output keys, ordered rules and the
// IntendedFor options.
type RuleSet struct {
	Keys        []Key              `json:"keys" yaml:"keys"`
	Rules       []Rule             `json:"rules" yaml:"rules"`
	IntendedFor IntendedForOptions `json:"intended_for" yaml:"intended_for"`
}

// Default returns the embedded rule set.
func Default() (*RuleSet, error) {
	rs, err := Load(defaultRules)
	if err != nil {
		return nil, fmt.Errorf("embedded rules: %w", err)
	}
	return rs, nil
}

// Load parses and validates a YAML rule set.
func Load(data []byte) (*RuleSet, error) {
	var raw RuleSet
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRules, err)
	}

	rs := &RuleSet{IntendedFor: raw.IntendedFor}
	names := make(map[string]bool)
	for _, k := range raw.Keys {
		if k.Name == "" {
			return nil, fmt.Errorf("%w: key with template %q has no name", ErrInvalidRules, k.Template)
		}
		if names[k.Name] {
			return nil, fmt.Errorf("%w: duplicate key %q", ErrInvalidRules, k.Name)
		}
		key, err := NewKey(k.Name, k.Template, k.OutTypes...)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRules, err)
		}
		names[k.Name] = true
		rs.Keys = append(rs.Keys, key)
	}

	if len(raw.Rules) == 0 {
		return nil, fmt.Errorf("%w: no rules", ErrInvalidRules)
	}
	for i, r := range raw.Rules {
		if !names[r.Key] {
			return nil, fmt.Errorf("%w: rule %d references unknown key %q", ErrInvalidRules, i+1, r.Key)
		}
		if len(r.ProtocolContains) == 0 {
			return nil, fmt.Errorf("%w: rule %d has no protocol_contains", ErrInvalidRules, i+1)
		}
		needles := make([]string, 0, len(r.ProtocolContains))
		for _, n := range r.ProtocolContains {
			needles = append(needles, fold(n))
		}
		r.ProtocolContains = needles
		if r.Label == "" {
			r.Label = r.Key
		}
		rs.Rules = append(rs.Rules, r)
	}

	if len(rs.IntendedFor.MatchingParameters) == 0 && rs.IntendedFor.Criterion == "" {
		rs.IntendedFor = DefaultIntendedFor()
	}
	switch rs.IntendedFor.Criterion {
	case "Closest", "First":
	default:
		return nil, fmt.Errorf("%w: unknown intended_for criterion %q", ErrInvalidRules, rs.IntendedFor.Criterion)
	}

	return rs, nil
}

func fold(s string) string {
	return cases.Fold().String(s)
}
