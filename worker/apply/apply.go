// Package apply walks one job's application form to a terminal state. The
// form's screen sequence is unknown ahead of time, so the controller runs a
// bounded state machine: answer what it can on each screen, prefer continue
// over submit, and stop at a fixed ceiling rather than trust any site to
// terminate. No failure here ever escapes to the caller; every error path
// degrades to an abandoned attempt so the batch keeps moving.
package apply

import (
	"context"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vector81/Jobby/answer"
	"github.com/vector81/Jobby/browser"
	"github.com/vector81/Jobby/model"
	"github.com/vector81/Jobby/worker/platform"
)

// State names one node of the per-job flow machine.
type State string

const (
	StateStart      State = "start"
	StateTriggering State = "triggering"
	StateStepLoop   State = "step-loop"
	StateSubmitted  State = "submitted"
	StateAbandoned  State = "abandoned"
)

// MaxSteps is the step ceiling: the circuit breaker against malformed or
// cyclic form flows. Legitimate applications finish well inside it.
const MaxSteps = 8

// confirmPoll is how often the post-submit confirmation check reruns.
const confirmPoll = 500 * time.Millisecond

// Result is what one attempt reports back. The caller persists it; the
// controller keeps nothing.
type Result struct {
	Outcome  model.Outcome
	Steps    int      // form screens walked before the terminal state
	Answered []string // labels of the questions filled this attempt
	Reason   string   // why an abandoned attempt stopped
}

// Submitted reports whether the attempt reached a successful terminal state.
func (r Result) Submitted() bool {
	return r.Outcome == model.OutcomeSubmitted
}

// Controller drives one application at a time through an adapter.
type Controller struct {
	adapter  platform.Adapter
	resolver *answer.Resolver

	// confirmWait bounds the post-submit confirmation poll. Shortened in
	// tests; browser.ConfirmTimeout otherwise.
	confirmWait time.Duration
}

// NewController builds a controller over a site adapter and a resolver.
func NewController(adapter platform.Adapter, resolver *answer.Resolver) *Controller {
	return &Controller{
		adapter:     adapter,
		resolver:    resolver,
		confirmWait: browser.ConfirmTimeout,
	}
}

// Run takes the job currently loaded on page to a terminal state. The page
// must already be on the job's detail view.
func (c *Controller) Run(ctx context.Context, page browser.Page, job *model.Job) Result {
	res := Result{Outcome: model.OutcomeAbandoned}

	state := StateStart
	for {
		switch state {
		case StateStart:
			log.Infof("applying to %s", job)
			state = StateTriggering

		case StateTriggering:
			found, err := c.adapter.TriggerApply(page)
			switch {
			case err != nil:
				state = c.abandon(&res, "apply trigger failed", err)
			case !found:
				state = c.abandon(&res, "no apply trigger", nil)
			default:
				state = StateStepLoop
			}

		case StateStepLoop:
			state = c.runSteps(ctx, page, &res)

		case StateSubmitted:
			res.Outcome = model.OutcomeSubmitted
			log.Infof("submitted %s after %d step(s), %d question(s) answered",
				job.URL, res.Steps, len(res.Answered))
			return res

		case StateAbandoned:
			res.Outcome = model.OutcomeAbandoned
			log.Infof("abandoned %s at step %d: %s", job.URL, res.Steps, res.Reason)
			return res
		}
	}
}

// runSteps is the bounded screen loop. Each iteration handles exactly one
// rendered screen; the order of operations inside an iteration is a
// contract, not a convenience — in particular continue is always tried
// before submit, because a screen offering both must never be submitted
// early.
func (c *Controller) runSteps(ctx context.Context, page browser.Page, res *Result) State {
	for step := 1; step <= MaxSteps; step++ {
		res.Steps = step

		if ctx.Err() != nil {
			return c.abandon(res, "run cancelled", nil)
		}

		// A previous step's continue may already have landed on the
		// confirmation screen.
		done, err := c.adapter.Completed(page)
		if err != nil {
			return c.abandon(res, "completion check failed", err)
		}
		if done {
			return StateSubmitted
		}

		if _, err := c.adapter.SkipCoverLetter(page); err != nil {
			if browser.IsSessionLost(err) {
				return c.abandon(res, "cover letter step failed", err)
			}
			log.Debugf("cover letter skip: %v", err)
		}

		answered, err := c.answerQuestions(page, res)
		if err != nil {
			return c.abandon(res, "screening pass failed", err)
		}

		// Surface lazily rendered controls before hunting for triggers.
		if err := page.ScrollBottom(); err != nil && browser.IsSessionLost(err) {
			return c.abandon(res, "reveal scroll failed", err)
		}

		found, err := c.adapter.Continue(page)
		if err != nil && browser.IsSessionLost(err) {
			return c.abandon(res, "continue failed", err)
		}
		if found {
			if err != nil {
				log.Debugf("continue click at step %d: %v", step, err)
			}
			continue
		}

		found, err = c.adapter.Submit(page)
		if err != nil && browser.IsSessionLost(err) {
			return c.abandon(res, "submit failed", err)
		}
		if found && err == nil {
			// The dispatched click is trusted even when no confirmation
			// text shows up: confirmation markup is unreliable across
			// sites, a delivered submit is not.
			c.awaitConfirmation(ctx, page)
			return StateSubmitted
		}
		if found {
			log.Warnf("submit click at step %d: %v", step, err)
		}

		if answered == 0 {
			return c.abandon(res, "no actionable control on screen", nil)
		}
	}
	return c.abandon(res, "step ceiling reached", nil)
}

// answerQuestions runs one screen's extract → resolve → fill pass and
// reports how many questions were filled. Unresolved questions are left
// untouched for the operator to spot.
func (c *Controller) answerQuestions(page browser.Page, res *Result) (int, error) {
	questions, err := c.adapter.Questions(page)
	if err != nil {
		return 0, err
	}

	answered := 0
	for _, q := range questions {
		if strings.TrimSpace(q.Label) == "" {
			continue
		}
		value, ok := c.resolver.Resolve(q)
		if !ok {
			log.Debugf("no answer for %q, leaving blank", q.Label)
			continue
		}
		if err := c.adapter.Fill(page, q, value); err != nil {
			return answered, err
		}
		res.Answered = append(res.Answered, q.Label)
		answered++
	}
	return answered, nil
}

// awaitConfirmation polls for the completion signal after a submit click.
// Purely informational: its absence never downgrades the outcome.
func (c *Controller) awaitConfirmation(ctx context.Context, page browser.Page) {
	deadline := time.Now().Add(c.confirmWait)
	for time.Now().Before(deadline) {
		if done, err := c.adapter.Completed(page); err == nil && done {
			log.Debug("confirmation text observed")
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(confirmPoll):
		}
	}
	log.Debug("no confirmation text within the wait; trusting the submit click")
}

// abandon records why the attempt stopped and classifies the error for the
// log. Session loss is called out separately because it also tells the
// runner the next job may be in trouble.
func (c *Controller) abandon(res *Result, reason string, err error) State {
	res.Reason = reason
	switch {
	case err == nil:
	case browser.IsSessionLost(err):
		log.Warnf("%s: browser session lost: %v", reason, err)
	default:
		log.Warnf("%s: %v", reason, err)
	}
	return StateAbandoned
}
