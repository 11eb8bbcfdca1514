package apply

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vector81/Jobby/answer"
	"github.com/vector81/Jobby/browser"
	"github.com/vector81/Jobby/config"
	"github.com/vector81/Jobby/model"
	"github.com/vector81/Jobby/store"
)

// stubPage satisfies browser.Page with no-ops; the controller only touches
// it for the reveal scroll, everything else goes through the adapter.
type stubPage struct {
	scrolls int
}

func (p *stubPage) Navigate(string, time.Duration) error   { return nil }
func (p *stubPage) URL() string                            { return "https://example.test/job/1" }
func (p *stubPage) Content() (string, error)               { return "", nil }
func (p *stubPage) BodyText() (string, error)              { return "", nil }
func (p *stubPage) Evaluate(string, any) error             { return nil }
func (p *stubPage) WaitVisible(string, time.Duration) bool { return true }
func (p *stubPage) IsVisible(string) bool                  { return true }
func (p *stubPage) Click(string) error                     { return nil }
func (p *stubPage) Fill(string, string) error              { return nil }
func (p *stubPage) SelectByLabel(string, string) error     { return nil }
func (p *stubPage) SetFiles(string, ...string) error       { return nil }
func (p *stubPage) ScrollBottom() error                    { p.scrolls++; return nil }
func (p *stubPage) Close() error                           { return nil }

// fakeForm scripts one simulated application flow and records what the
// controller did to it.
type fakeForm struct {
	applyFound         bool
	completedAtStep    int // Completed turns true from this check on; 0 = never
	continueClicksLeft int
	alwaysContinue     bool
	submitFound        bool
	questions          []model.ScreeningQuestion
	questionsErr       error

	completedChecks int
	continueClicks  int
	submitClicks    int
	filled          []string
	clicks          []string // trigger activations in order
}

func (f *fakeForm) Name() string    { return "fake" }
func (f *fakeForm) BaseURL() string { return "https://example.test" }

func (f *fakeForm) LoggedIn(browser.Page) bool { return true }

func (f *fakeForm) Search(context.Context, browser.Page, string) ([]model.Job, error) {
	return nil, nil
}

func (f *fakeForm) TriggerApply(browser.Page) (bool, error) {
	if f.applyFound {
		f.clicks = append(f.clicks, "apply")
	}
	return f.applyFound, nil
}

func (f *fakeForm) SkipCoverLetter(browser.Page) (bool, error) { return false, nil }

func (f *fakeForm) Questions(browser.Page) ([]model.ScreeningQuestion, error) {
	if f.questionsErr != nil {
		return nil, f.questionsErr
	}
	return f.questions, nil
}

func (f *fakeForm) Fill(_ browser.Page, q model.ScreeningQuestion, answer string) error {
	f.filled = append(f.filled, q.Label+"="+answer)
	return nil
}

func (f *fakeForm) Continue(browser.Page) (bool, error) {
	if f.alwaysContinue || f.continueClicksLeft > 0 {
		f.continueClicksLeft--
		f.continueClicks++
		f.clicks = append(f.clicks, "continue")
		return true, nil
	}
	return false, nil
}

func (f *fakeForm) Submit(browser.Page) (bool, error) {
	if f.submitFound {
		f.submitClicks++
		f.clicks = append(f.clicks, "submit")
		return true, nil
	}
	return false, nil
}

func (f *fakeForm) Completed(browser.Page) (bool, error) {
	f.completedChecks++
	done := f.completedAtStep > 0 && f.completedChecks >= f.completedAtStep
	return done, nil
}

func newTestController(t *testing.T, form *fakeForm) *Controller {
	t.Helper()
	answers := store.LoadAnswers(filepath.Join(t.TempDir(), "answers.json"))
	resolver := answer.NewResolver(answers, answer.DefaultRules(config.Profile{
		NoticePeriod: "4 weeks",
	}))
	c := NewController(form, resolver)
	c.confirmWait = 10 * time.Millisecond
	return c
}

func run(t *testing.T, form *fakeForm) Result {
	t.Helper()
	c := newTestController(t, form)
	job := &model.Job{Title: "Engineer", URL: "https://example.test/job/1"}
	return c.Run(context.Background(), &stubPage{}, job)
}

func TestNoApplyTriggerAbandons(t *testing.T) {
	form := &fakeForm{applyFound: false}

	res := run(t, form)

	assert.False(t, res.Submitted())
	assert.Equal(t, model.OutcomeAbandoned, res.Outcome)
	// The step loop never ran.
	assert.Zero(t, form.completedChecks)
	assert.Zero(t, res.Steps)
}

func TestStepCeilingStopsAnEndlessFlow(t *testing.T) {
	form := &fakeForm{applyFound: true, alwaysContinue: true}

	res := run(t, form)

	assert.False(t, res.Submitted())
	assert.Equal(t, MaxSteps, res.Steps)
	assert.Equal(t, MaxSteps, form.continueClicks)
	assert.Zero(t, form.submitClicks, "an always-continue flow must never reach submit")
}

func TestContinueWinsOverSubmitOnTheSameScreen(t *testing.T) {
	// Screen 1 offers both triggers; screen 2 only submit.
	form := &fakeForm{applyFound: true, continueClicksLeft: 1, submitFound: true}

	res := run(t, form)

	require.True(t, res.Submitted())
	assert.Equal(t, 2, res.Steps)
	assert.Equal(t, []string{"apply", "continue", "submit"}, form.clicks,
		"submit must not fire on the screen where continue was available")
}

func TestPreexistingCompletionShortCircuits(t *testing.T) {
	form := &fakeForm{applyFound: true, completedAtStep: 1, submitFound: true}

	res := run(t, form)

	require.True(t, res.Submitted())
	assert.Equal(t, 1, res.Steps)
	assert.Zero(t, form.submitClicks)
	assert.Zero(t, form.continueClicks)
}

func TestSubmitClickTrustedWithoutConfirmation(t *testing.T) {
	// Completed stays false forever; the delivered click still wins.
	form := &fakeForm{applyFound: true, submitFound: true}

	res := run(t, form)

	require.True(t, res.Submitted())
	assert.Equal(t, 1, form.submitClicks)
}

func TestScreeningPassFillsWhatItCanResolve(t *testing.T) {
	form := &fakeForm{
		applyFound:         true,
		continueClicksLeft: 1,
		submitFound:        true,
		questions: []model.ScreeningQuestion{
			{Label: "what is your notice period?", Kind: model.QuestionText},
			{Label: "do you hold a forklift licence?", Kind: model.QuestionRadio,
				Options: []string{"HR class", "LF class"}},
		},
	}

	res := run(t, form)

	require.True(t, res.Submitted())
	// Both screens ran the pass; the unresolvable question stayed blank.
	assert.Equal(t, []string{
		"what is your notice period?=4 weeks",
		"what is your notice period?=4 weeks",
	}, form.filled)
	assert.Len(t, res.Answered, 2)
}

func TestNoActionableControlAbandonsImmediately(t *testing.T) {
	form := &fakeForm{
		applyFound: true,
		questions: []model.ScreeningQuestion{
			{Label: "describe your ideal role", Kind: model.QuestionTextArea},
		},
	}

	res := run(t, form)

	assert.False(t, res.Submitted())
	assert.Equal(t, 1, res.Steps)
	assert.Empty(t, form.filled)
	assert.Equal(t, "no actionable control on screen", res.Reason)
}

func TestSessionLossConvertsToAbandoned(t *testing.T) {
	form := &fakeForm{
		applyFound:   true,
		questionsErr: errors.New("evaluate script: target closed"),
	}

	res := run(t, form)

	assert.False(t, res.Submitted())
	assert.Equal(t, model.OutcomeAbandoned, res.Outcome)
	assert.Equal(t, 1, res.Steps)
}
