package model

import (
	"fmt"
	"strings"
	"time"
)

// SalaryNotListed is stored when a listing shows no salary text at all.
const SalaryNotListed = "Not listed"

// WorkType is the advertised working arrangement. Values outside the known
// set are kept verbatim so nothing the site said is lost.
type WorkType string

const (
	WorkTypeRemote      WorkType = "Remote"
	WorkTypeHybrid      WorkType = "Hybrid"
	WorkTypeOnSite      WorkType = "On-site"
	WorkTypeUnspecified WorkType = "Unspecified"
)

// NormalizeWorkType folds the common spellings of each arrangement into one
// canonical value and passes everything else through untouched.
func NormalizeWorkType(raw string) WorkType {
	trimmed := strings.TrimSpace(raw)
	switch strings.ToLower(trimmed) {
	case "":
		return WorkTypeUnspecified
	case "remote", "fully remote", "work from home", "wfh":
		return WorkTypeRemote
	case "hybrid", "hybrid work", "hybrid remote":
		return WorkTypeHybrid
	case "on-site", "onsite", "on site", "in office", "in-office", "office":
		return WorkTypeOnSite
	default:
		return WorkType(trimmed)
	}
}

// Job is one advertised position discovered by a search. URL is the canonical
// absolute link and the only identity key: the catalogue never holds two jobs
// with the same URL.
type Job struct {
	Title     string     `json:"title"`     // advertised position title
	Company   string     `json:"company"`   // hiring company name
	Location  string     `json:"location"`  // free-text location
	WorkType  WorkType   `json:"workType"`  // normalized working arrangement
	Salary    string     `json:"salary"`    // verbatim salary text or SalaryNotListed
	URL       string     `json:"url"`       // canonical absolute link, identity key
	Applied   bool       `json:"applied"`   // an attempt ran to a terminal state
	AppliedAt *time.Time `json:"appliedAt,omitempty"`
	Platform  string     `json:"platform"` // adapter name that found the job
	Keyword   string     `json:"keyword"`  // search keyword that surfaced it
}

// String implements fmt.Stringer for progress logs.
func (j *Job) String() string {
	return fmt.Sprintf("[%s | %s | %s | %s]", j.Title, j.Company, j.Location, j.Salary)
}
