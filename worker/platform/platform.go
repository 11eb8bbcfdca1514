// Package platform defines the capability set a job site must expose for the
// flow controller to drive it. The controller only ever talks to the Adapter
// interface; selectors, URL schemes, and page quirks live entirely inside the
// per-site implementations.
package platform

import (
	"context"

	"github.com/vector81/Jobby/browser"
	"github.com/vector81/Jobby/model"
)

// Adapter is one supported job site. The trigger and detection operations
// return (found bool, err error): a missing control is an expected answer,
// not a failure, so only driver-level breakage surfaces as an error.
type Adapter interface {
	// Name tags jobs and log lines with the site.
	Name() string
	// BaseURL is where the runner navigates to establish the session.
	BaseURL() string
	// LoggedIn reports whether the operator's login is active on page.
	LoggedIn(page browser.Page) bool
	// Search runs one keyword search and returns the parsed listings.
	Search(ctx context.Context, page browser.Page, keyword string) ([]model.Job, error)

	// TriggerApply locates and activates the apply affordance on a listing.
	TriggerApply(page browser.Page) (bool, error)
	// SkipCoverLetter activates an optional skip-cover-letter affordance.
	SkipCoverLetter(page browser.Page) (bool, error)
	// Questions extracts the screening questions on the current screen.
	Questions(page browser.Page) ([]model.ScreeningQuestion, error)
	// Fill commits one answer into the control q points at.
	Fill(page browser.Page, q model.ScreeningQuestion, answer string) error
	// Continue activates the step-advance control when one exists.
	Continue(page browser.Page) (bool, error)
	// Submit activates the final submit control when one exists.
	Submit(page browser.Page) (bool, error)
	// Completed reports whether the page shows a submission confirmation.
	Completed(page browser.Page) (bool, error)
}

// Canonical wording for the three trigger kinds and the confirmation check.
// Matching is substring containment via the phrase package; order matters
// only for readability here, the first matching element in DOM order wins.
var (
	ContinuePhrases = []string{"continue", "next", "proceed"}
	SubmitPhrases   = []string{"submit application", "submit"}

	CompletionPhrases = []string{
		"application submitted",
		"application sent",
		"your application has been submitted",
		"successfully applied",
		"application complete",
		"thank you for applying",
	}
)
