// Package answer decides what goes into screening questions. Resolution is
// layered: answers learned on earlier runs win, then profile-derived rules,
// then a yes-leaning default for plain Yes/No choices. Whatever resolves is
// written back to the learned cache, so every run teaches the next one.
package answer

import (
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/vector81/Jobby/model"
	"github.com/vector81/Jobby/phrase"
	"github.com/vector81/Jobby/store"
)

// answerYes is the default for unrecognised binary questions. Screening
// gates are phrased so that "Yes" is almost always the qualifying response.
const answerYes = "Yes"

// Source names the resolution layer that produced an answer.
type Source string

const (
	SourceLearned Source = "learned"
	SourceRule    Source = "rule"
	SourceDefault Source = "default"
)

// Resolver owns no state of its own; the learned cache and the rule table
// are handed in by run setup.
type Resolver struct {
	answers *store.AnswerStore
	rules   *phrase.Table
}

// NewResolver builds a resolver over an answer store and a rule table.
func NewResolver(answers *store.AnswerStore, rules *phrase.Table) *Resolver {
	return &Resolver{answers: answers, rules: rules}
}

// Resolve returns the answer for q, or ok=false when no layer can decide.
// Unresolved questions are left for the operator; they are never guessed
// beyond the binary default.
func (r *Resolver) Resolve(q model.ScreeningQuestion) (string, bool) {
	label := strings.TrimSpace(q.Label)
	if label == "" {
		return "", false
	}

	if value, ok := r.answers.Lookup(label); ok {
		r.learn(label, value, SourceLearned)
		return value, true
	}

	if value, ok := r.rules.Match(label); ok {
		value = reconcileOption(value, q.Options)
		r.learn(label, value, SourceRule)
		return value, true
	}

	if isBinaryYesNo(q.Options) {
		r.learn(label, answerYes, SourceDefault)
		return answerYes, true
	}

	return "", false
}

// learn writes the resolved pair back and flushes. A failed flush costs
// nothing but future convenience, so it is logged and swallowed.
func (r *Resolver) learn(label, value string, source Source) {
	r.answers.Put(label, value)
	if err := r.answers.Flush(); err != nil {
		log.Warnf("persisting learned answer for %q: %v", label, err)
	}
	log.Debugf("resolved %q -> %q via %s", label, value, source)
}

// reconcileOption maps a rule default onto the options actually offered: the
// first option containing the default, or contained by it, wins. With no
// textual match the first option is taken so single-choice controls always
// receive a pickable value.
func reconcileOption(value string, options []string) string {
	if len(options) == 0 {
		return value
	}
	for _, opt := range options {
		if phrase.EitherContainsFold(opt, value) {
			return opt
		}
	}
	return options[0]
}

// isBinaryYesNo reports whether options are exactly {"Yes","No"} in either
// order, ignoring case and padding.
func isBinaryYesNo(options []string) bool {
	if len(options) != 2 {
		return false
	}
	first := strings.TrimSpace(options[0])
	second := strings.TrimSpace(options[1])
	return (strings.EqualFold(first, "yes") && strings.EqualFold(second, "no")) ||
		(strings.EqualFold(first, "no") && strings.EqualFold(second, "yes"))
}
