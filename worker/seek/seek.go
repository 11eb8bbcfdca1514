// Package seek drives seek.com.au: keyword search over the listings pages
// and the Quick Apply form flow. Everything site-specific lives here; the
// flow controller sees only the platform.Adapter surface.
package seek

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vector81/Jobby/browser"
	"github.com/vector81/Jobby/config"
	"github.com/vector81/Jobby/model"
	"github.com/vector81/Jobby/utils"
	"github.com/vector81/Jobby/worker/platform"
)

const (
	platformName = "seek"
	baseURL      = "https://www.seek.com.au"
)

// Listing pages render more cards as the viewport approaches the bottom;
// scrolling stops once two passes in a row see the same card count.
const (
	revealMaxScrolls = 6
	revealSettle     = time.Second
)

// Adapter is the SEEK implementation of platform.Adapter.
type Adapter struct {
	location string
	resume   string
}

// New builds the adapter from the run configuration.
func New(cfg *config.GlobalConfig) *Adapter {
	return &Adapter{
		location: cfg.Search.Location,
		resume:   utils.ExpandPath(cfg.Profile.ResumePath),
	}
}

func (a *Adapter) Name() string    { return platformName }
func (a *Adapter) BaseURL() string { return baseURL }

// LoggedIn reports whether the operator's account menu is on screen.
func (a *Adapter) LoggedIn(page browser.Page) bool {
	return page.IsVisible(locatorAccountMenu) && !page.IsVisible(locatorSignInLink)
}

// buildSearchURL assembles the keyword search address.
func buildSearchURL(keyword, location string) string {
	params := url.Values{}
	params.Set("keywords", keyword)
	if location != "" {
		params.Set("where", location)
	}
	return baseURL + "/jobs?" + params.Encode()
}

// Search loads one keyword's results, scrolls until the card count settles,
// and parses the rendered page.
func (a *Adapter) Search(ctx context.Context, page browser.Page, keyword string) ([]model.Job, error) {
	searchURL := buildSearchURL(keyword, a.location)
	if err := page.Navigate(searchURL, browser.NavigationTimeout); err != nil {
		return nil, err
	}
	if !page.WaitVisible(locatorJobCard, browser.TriggerTimeout) {
		log.Infof("seek: no results rendered for %q", keyword)
		return nil, nil
	}

	revealAllCards(ctx, page)

	html, err := page.Content()
	if err != nil {
		return nil, fmt.Errorf("read results page: %w", err)
	}
	return parseSearch(html, keyword)
}

// revealAllCards scrolls to the bottom until the listing stops growing.
func revealAllCards(ctx context.Context, page browser.Page) {
	countScript := `document.querySelectorAll(` + strconv.Quote(locatorJobCard) + `).length`

	last := -1
	for i := 0; i < revealMaxScrolls; i++ {
		if err := page.ScrollBottom(); err != nil {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(revealSettle):
		}

		var count int
		if err := page.Evaluate(countScript, &count); err != nil {
			return
		}
		if count == last {
			return
		}
		last = count
	}
}

// TriggerApply activates the Quick Apply control on a job detail page. The
// known data-automation selectors are tried first; failing those, the
// clickable texts are matched by phrase.
func (a *Adapter) TriggerApply(page browser.Page) (bool, error) {
	for _, selector := range applyTriggerSelectors {
		if !page.WaitVisible(selector, browser.TriggerTimeout) {
			continue
		}
		if err := page.Click(selector); err != nil {
			return true, fmt.Errorf("click apply trigger: %w", err)
		}
		return true, nil
	}
	return platform.ClickTrigger(page, applyPhrases)
}

// SkipCoverLetter handles the documents step: best-effort resume attach,
// then the no-cover-letter choice as a labelled radio, falling back to a
// plain button.
func (a *Adapter) SkipCoverLetter(page browser.Page) (bool, error) {
	a.attachResume(page)

	found, err := platform.ClickLabelledRadio(page, coverLetterSkipPhrases)
	if found || err != nil {
		return found, err
	}
	return platform.ClickTrigger(page, coverLetterSkipPhrases)
}

// attachResume uploads the configured resume when the step shows a file
// input. Most Quick Apply flows preselect the stored resume, so absence of
// the input is the common case.
func (a *Adapter) attachResume(page browser.Page) {
	if a.resume == "" || !page.IsVisible(`input[type="file"]`) {
		return
	}
	if err := page.SetFiles(`input[type="file"]`, a.resume); err != nil {
		log.Debugf("seek: resume attach: %v", err)
	}
}

func (a *Adapter) Questions(page browser.Page) ([]model.ScreeningQuestion, error) {
	return platform.ScanQuestions(page)
}

func (a *Adapter) Fill(page browser.Page, q model.ScreeningQuestion, answer string) error {
	return platform.FillQuestion(page, q, answer)
}

func (a *Adapter) Continue(page browser.Page) (bool, error) {
	return platform.ClickTrigger(page, platform.ContinuePhrases)
}

func (a *Adapter) Submit(page browser.Page) (bool, error) {
	return platform.ClickTrigger(page, platform.SubmitPhrases)
}

func (a *Adapter) Completed(page browser.Page) (bool, error) {
	return platform.PageCompleted(page)
}
