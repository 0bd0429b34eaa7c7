// Package heuristic maps imaging series to BIDS output templates.
//
// A RuleSet holds the output keys (path templates plus output types), an
// ordered rule list, and the IntendedFor options handed to the converter.
// Classify walks the series in order and assigns each to the key of the first
// rule that matches; series no rule matches are reported as unclassified and
// left out of the output.
//
// The default rule set is embedded from default_rules.yaml. A YAML file with
// the same schema can replace it.
package heuristic
