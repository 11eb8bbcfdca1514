// Package phrase is the single text-matching utility used everywhere a
// rendered label is compared against canonical wording: apply/continue/submit
// trigger detection, answer rules, and option reconciliation all route
// through it so they share one matching semantics.
package phrase

import (
	"strings"
)

// ContainsFold reports whether sub occurs within s, case-insensitively.
// Empty needles never match.
func ContainsFold(s, sub string) bool {
	if strings.TrimSpace(sub) == "" {
		return false
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

// EitherContainsFold reports containment in either direction. Option
// reconciliation uses it: "yes" should match the option "Yes, I do" and the
// option "Yes" should match the default "Yes, I am willing".
func EitherContainsFold(a, b string) bool {
	return ContainsFold(a, b) || ContainsFold(b, a)
}

// MatchesAny reports whether any fragment occurs in text.
func MatchesAny(text string, fragments []string) bool {
	for _, fragment := range fragments {
		if ContainsFold(text, fragment) {
			return true
		}
	}
	return false
}

// FirstMatch returns the index of the first candidate containing any of the
// fragments, or -1. Candidates are checked in order, so callers that pass
// texts in DOM order get the topmost match.
func FirstMatch(candidates []string, fragments []string) int {
	for i, candidate := range candidates {
		if MatchesAny(candidate, fragments) {
			return i
		}
	}
	return -1
}

// Rule pairs a canonical label fragment with the value it yields.
type Rule struct {
	Fragment string
	Value    string
}

// Table is an ordered rule list. Matching walks the rules in insertion order
// and the first fragment contained in the text wins, so more specific
// fragments belong before generic ones.
type Table struct {
	rules []Rule
}

// NewTable builds a table from rules in matching order.
func NewTable(rules ...Rule) *Table {
	t := &Table{rules: make([]Rule, 0, len(rules))}
	for _, r := range rules {
		t.Add(r.Fragment, r.Value)
	}
	return t
}

// Add appends a rule. Rules with a blank fragment are dropped because an
// empty needle would match every label.
func (t *Table) Add(fragment, value string) {
	if strings.TrimSpace(fragment) == "" {
		return
	}
	t.rules = append(t.rules, Rule{Fragment: fragment, Value: value})
}

// Match returns the value of the first rule whose fragment occurs in text.
func (t *Table) Match(text string) (string, bool) {
	for _, r := range t.rules {
		if ContainsFold(text, r.Fragment) {
			return r.Value, true
		}
	}
	return "", false
}

// Len reports the number of rules held.
func (t *Table) Len() int {
	return len(t.rules)
}
