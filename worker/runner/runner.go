// Package runner owns a whole run: one page per platform, operator login,
// keyword searches into the catalogue, then the paced application loop that
// feeds unapplied jobs to the flow controller and records every outcome.
package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vector81/Jobby/answer"
	"github.com/vector81/Jobby/browser"
	"github.com/vector81/Jobby/config"
	"github.com/vector81/Jobby/model"
	"github.com/vector81/Jobby/phrase"
	"github.com/vector81/Jobby/service"
	"github.com/vector81/Jobby/store"
	"github.com/vector81/Jobby/utils"
	"github.com/vector81/Jobby/worker/apply"
	"github.com/vector81/Jobby/worker/platform"
)

// loginPoll is how often the login check reruns while waiting for the
// operator to sign in.
const loginPoll = 3 * time.Second

// Runner executes one batch across the configured platforms.
type Runner struct {
	cfg       *config.GlobalConfig
	session   browser.Session
	adapters  []platform.Adapter
	catalogue *store.Catalogue
	resolver  *answer.Resolver
	history   *service.HistoryService
	runID     string
}

// New wires a runner. Every collaborator is handed in; the runner owns no
// global state.
func New(cfg *config.GlobalConfig, session browser.Session, adapters []platform.Adapter,
	catalogue *store.Catalogue, resolver *answer.Resolver, history *service.HistoryService) *Runner {
	return &Runner{
		cfg:       cfg,
		session:   session,
		adapters:  adapters,
		catalogue: catalogue,
		resolver:  resolver,
		history:   history,
		runID:     uuid.NewString(),
	}
}

// Run works through every configured platform in order and logs a batch
// summary. It returns an error only when the browser session itself is gone;
// per-job failures are absorbed along the way.
func (r *Runner) Run(ctx context.Context) error {
	start := time.Now()
	log.Infof("run %s starting across %d platform(s)", r.runID, len(r.adapters))

	var submitted, abandoned int
	for _, adapter := range r.adapters {
		if ctx.Err() != nil {
			break
		}
		s, a, err := r.runPlatform(ctx, adapter)
		submitted += s
		abandoned += a
		if err != nil {
			if !r.session.Alive() {
				return fmt.Errorf("platform %s: %w", adapter.Name(), err)
			}
			log.Errorf("platform %s: %v", adapter.Name(), err)
		}
	}

	log.Infof("run %s done in %s: %d submitted, %d abandoned, %d job(s) in catalogue",
		r.runID, utils.FormatDuration(start, time.Now()), submitted, abandoned, r.catalogue.Len())
	r.logLedgerSummary()
	return nil
}

// RunID identifies this batch in the attempt ledger.
func (r *Runner) RunID() string {
	return r.runID
}

func (r *Runner) runPlatform(ctx context.Context, adapter platform.Adapter) (submitted, abandoned int, err error) {
	page, err := r.session.NewPage()
	if err != nil {
		return 0, 0, fmt.Errorf("open page: %w", err)
	}
	defer page.Close()

	if err := r.waitForLogin(ctx, adapter, page); err != nil {
		return 0, 0, err
	}

	r.search(ctx, adapter, page)
	return r.applyPending(ctx, adapter, page)
}

// waitForLogin lands on the platform and gives the operator up to the login
// timeout to sign in. A persistent profile usually satisfies the first check
// immediately.
func (r *Runner) waitForLogin(ctx context.Context, adapter platform.Adapter, page browser.Page) error {
	if err := page.Navigate(adapter.BaseURL(), browser.NavigationTimeout); err != nil {
		return fmt.Errorf("open %s: %w", adapter.BaseURL(), err)
	}

	deadline := time.Now().Add(browser.LoginTimeout)
	prompted := false
	for time.Now().Before(deadline) {
		if adapter.LoggedIn(page) {
			log.Infof("%s: logged in", adapter.Name())
			return nil
		}
		if !prompted {
			log.Infof("%s: waiting for login in the browser window (up to %s)",
				adapter.Name(), browser.LoginTimeout)
			prompted = true
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(loginPoll):
		}
	}
	return fmt.Errorf("%s: not logged in within %s", adapter.Name(), browser.LoginTimeout)
}

// search merges every keyword's results into the catalogue. Search failures
// cost coverage, not the run.
func (r *Runner) search(ctx context.Context, adapter platform.Adapter, page browser.Page) {
	for _, keyword := range r.cfg.Search.Keywords {
		if ctx.Err() != nil {
			return
		}
		jobs, err := adapter.Search(ctx, page, keyword)
		if err != nil {
			log.Warnf("%s: search %q: %v", adapter.Name(), keyword, err)
			continue
		}
		added := r.catalogue.Merge(jobs)
		log.Infof("%s: %q found %d listing(s), %d new", adapter.Name(), keyword, len(jobs), added)
	}

	if err := r.catalogue.Flush(); err != nil {
		log.Warnf("catalogue flush after search: %v", err)
	}
}

// applyPending runs the flow controller over every unapplied job for the
// platform, honouring the blacklist, the per-run cap, and the mandatory
// pacing delay between attempts.
func (r *Runner) applyPending(ctx context.Context, adapter platform.Adapter, page browser.Page) (submitted, abandoned int, err error) {
	controller := apply.NewController(adapter, r.resolver)
	pending := r.catalogue.Unapplied(adapter.Name())
	log.Infof("%s: %d job(s) pending", adapter.Name(), len(pending))

	attempts := 0
	for i := range pending {
		job := &pending[i]
		if ctx.Err() != nil {
			break
		}
		if limit := r.cfg.Apply.MaxApplications; limit > 0 && attempts >= limit {
			log.Infof("%s: application cap of %d reached", adapter.Name(), limit)
			break
		}
		if Blacklisted(job.Company, r.cfg.Search.Blacklist) {
			log.Infof("skipping blacklisted company %q", job.Company)
			continue
		}

		if attempts > 0 {
			// Pacing between attempts, never before the first one.
			utils.SleepRandom(ctx, r.cfg.Apply.DelayMinSeconds, r.cfg.Apply.DelayMaxSeconds)
			if ctx.Err() != nil {
				break
			}
		}

		startedAt := time.Now()
		res := r.attempt(ctx, controller, page, job)
		attempts++
		if res.Submitted() {
			submitted++
		} else {
			abandoned++
		}

		if err := r.catalogue.RecordOutcome(job.URL, res.Submitted()); err != nil {
			log.Warnf("recording outcome for %s: %v", job.URL, err)
		}
		r.history.RecordAttempt(r.runID, job, res, startedAt)

		if !r.session.Alive() {
			return submitted, abandoned, browser.ErrSessionLost
		}
	}
	return submitted, abandoned, nil
}

// attempt navigates to one job and hands it to the flow controller. A failed
// navigation is an abandoned attempt like any other.
func (r *Runner) attempt(ctx context.Context, controller *apply.Controller, page browser.Page, job *model.Job) apply.Result {
	if err := page.Navigate(job.URL, browser.NavigationTimeout); err != nil {
		log.Warnf("open %s: %v", job.URL, err)
		return apply.Result{Outcome: model.OutcomeAbandoned, Reason: "navigation failed"}
	}
	return controller.Run(ctx, page, job)
}

func (r *Runner) logLedgerSummary() {
	submitted, abandoned, err := r.history.RunSummary(r.runID)
	if err != nil {
		log.Warnf("reading run summary: %v", err)
		return
	}
	log.Infof("ledger for run %s: %d submitted, %d abandoned", r.runID, submitted, abandoned)
}

// Blacklisted reports whether the company matches any blacklist fragment.
func Blacklisted(company string, blacklist []string) bool {
	return phrase.MatchesAny(company, blacklist)
}
