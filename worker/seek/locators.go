package seek

// Page element locators for seek.com.au. SEEK decorates its markup with
// data-automation attributes, which survive redesigns far better than class
// names do, so every selector here prefers them.

// Session / login state.
const (
	locatorAccountMenu = `[data-automation="account name"]`
	locatorSignInLink  = `a[data-automation="sign in"]`
)

// Search results page.
const (
	locatorJobCard     = `article[data-automation="normalJob"]`
	locatorJobTitle    = `a[data-automation="jobTitle"]`
	locatorJobCompany  = `a[data-automation="jobCompany"]`
	locatorJobLocation = `[data-automation="jobLocation"]`
	locatorJobSalary   = `[data-automation="jobSalary"]`
	locatorJobWorkType = `[data-automation="jobWorkType"]`
)

// Job detail page. Tried in order; the first visible one wins. Quick-apply
// jobs carry the first selector, externally hosted ones only the second.
var applyTriggerSelectors = []string{
	`a[data-automation="job-detail-apply"]`,
	`a[data-automation="jobDetailsApplyButton"]`,
}

// Apply flow phrases, matched over clickables and radio labels.
var (
	applyPhrases           = []string{"quick apply", "apply"}
	coverLetterSkipPhrases = []string{"don't include a cover letter", "do not include a cover letter", "no cover letter"}
)
