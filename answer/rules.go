package answer

import (
	"strconv"

	"github.com/vector81/Jobby/config"
	"github.com/vector81/Jobby/phrase"
)

// DefaultRules builds the fallback rule table from the applicant profile.
// Order matters: specific fragments sit above generic ones so "salary
// expectations" resolves before a bare "salary" would. Rules whose profile
// value is blank are dropped rather than filling empty strings into forms.
func DefaultRules(p config.Profile) *phrase.Table {
	years := strconv.Itoa(p.YearsExperience)

	candidates := []phrase.Rule{
		{Fragment: "right to work", Value: answerYes},
		{Fragment: "working rights", Value: answerYes},
		{Fragment: "authorised to work", Value: answerYes},
		{Fragment: "authorized to work", Value: answerYes},
		{Fragment: "require sponsorship", Value: "No"},
		{Fragment: "visa sponsorship", Value: "No"},
		{Fragment: "notice period", Value: p.NoticePeriod},
		{Fragment: "when can you start", Value: p.NoticePeriod},
		{Fragment: "expected salary", Value: p.ExpectedSalary},
		{Fragment: "salary expectation", Value: p.ExpectedSalary},
		{Fragment: "years of experience", Value: years},
		{Fragment: "years' experience", Value: years},
		{Fragment: "years experience", Value: years},
		{Fragment: "email", Value: p.Email},
		{Fragment: "phone", Value: p.Phone},
		{Fragment: "mobile", Value: p.Phone},
		{Fragment: "full name", Value: p.Name},
		{Fragment: "driver's licence", Value: answerYes},
		{Fragment: "drivers licence", Value: answerYes},
		{Fragment: "driver's license", Value: answerYes},
		{Fragment: "willing to relocate", Value: answerYes},
		{Fragment: "police check", Value: answerYes},
	}

	table := phrase.NewTable()
	for _, rule := range candidates {
		if rule.Value == "" {
			continue
		}
		table.Add(rule.Fragment, rule.Value)
	}
	return table
}
