package heuristic

import (
	"fmt"

	"github.com/deepprep/bidsify/internal/seqinfo"
)

// Selection is one series picked for a key, in the converter's
// {"item": series_id} form.
type Selection struct {
	Item string `json:"item"`
}

// Decision records what happened to one series.
type Decision struct {
	Record seqinfo.Record
	Key    string
	Label  string
}

// Classified reports whether a rule matched.
func (d Decision) Classified() bool {
	return d.Key != ""
}

// Message is the log line for the decision.
func (d Decision) Message() string {
	r := d.Record
	if !d.Classified() {
		return fmt.Sprintf("Unclassified: %s (dim3=%d, dim4=%d)", r.ProtocolName, r.Dim3, r.Dim4)
	}
	return fmt.Sprintf("%s: %s (series=%s)", d.Label, r.ProtocolName, r.SeriesID)
}

// Info is the classification of a batch of series.
type Info struct {
	// Keys lists every output key, including ones nothing matched
	Keys []Key

	// Selections maps key name to the series assigned to it, in input order
	Selections map[string][]Selection

	// Decisions holds one entry per input series, in input order
	Decisions []Decision
}

// Classify assigns each record to the first matching rule's key.
func (rs *RuleSet) Classify(records []seqinfo.Record) *Info {
	info := &Info{
		Keys:       rs.Keys,
		Selections: make(map[string][]Selection, len(rs.Keys)),
		Decisions:  make([]Decision, 0, len(records)),
	}
	for _, k := range rs.Keys {
		info.Selections[k.Name] = []Selection{}
	}

	for _, rec := range records {
		d := Decision{Record: rec}
		for _, rule := range rs.Rules {
			if rule.Match(rec) {
				d.Key = rule.Key
				d.Label = rule.Label
				info.Selections[rule.Key] = append(info.Selections[rule.Key], Selection{Item: rec.SeriesID})
				break
			}
		}
		info.Decisions = append(info.Decisions, d)
	}
	return info
}

// Unclassified returns the records no rule matched.
func (i *Info) Unclassified() []seqinfo.Record {
	var out []seqinfo.Record
	for _, d := range i.Decisions {
		if !d.Classified() {
			out = append(out, d.Record)
		}
	}
	return out
}

// KeyOutput is one key of the heuristic document.
type KeyOutput struct {
	Key
	Items []Selection `json:"items"`
}

// Document is the machine-readable heuristic handed to the converter.
type Document struct {
	Keys                    []KeyOutput        `json:"keys"`
	Unclassified            []string           `json:"unclassified"`
	PopulateIntendedForOpts IntendedForOptions `json:"populate_intended_for_opts"`
}

// Document renders the classification together with the IntendedFor options.
func (i *Info) Document(opts IntendedForOptions) Document {
	doc := Document{
		Keys:                    make([]KeyOutput, 0, len(i.Keys)),
		Unclassified:            []string{},
		PopulateIntendedForOpts: opts,
	}
	for _, k := range i.Keys {
		doc.Keys = append(doc.Keys, KeyOutput{Key: k, Items: i.Selections[k.Name]})
	}
	for _, r := range i.Unclassified() {
		doc.Unclassified = append(doc.Unclassified, r.SeriesID)
	}
	return doc
}
