// Package indeed drives au.indeed.com: keyword search and the Indeed Apply
// form flow. It exists alongside the seek adapter to keep the platform
// boundary honest; the flow controller cannot tell the two apart.
package indeed

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	log "github.com/sirupsen/logrus"

	"github.com/vector81/Jobby/browser"
	"github.com/vector81/Jobby/config"
	"github.com/vector81/Jobby/model"
	"github.com/vector81/Jobby/worker/platform"
)

const (
	platformName = "indeed"
	baseURL      = "https://au.indeed.com"
)

// Session / login state.
const (
	locatorAccountMenu = `[data-gnav-element-name="AccountMenu"]`
	locatorSignInLink  = `a[data-gnav-element-name="SignIn"]`
)

// Search results page.
const (
	locatorJobCard     = `div.job_seen_beacon`
	locatorJobTitle    = `h2.jobTitle a`
	locatorJobCompany  = `[data-testid="company-name"]`
	locatorJobLocation = `[data-testid="text-location"]`
	locatorJobSalary   = `[data-testid="attribute_snippet_testid"]`
)

// Job detail page.
var applyTriggerSelectors = []string{
	`#indeedApplyButton`,
	`button[data-testid="indeedApplyButton"]`,
}

var applyPhrases = []string{"apply now", "easily apply"}

var coverLetterSkipPhrases = []string{"apply without a cover letter", "no cover letter", "skip this step"}

// Adapter is the Indeed implementation of platform.Adapter.
type Adapter struct {
	location string
}

// New builds the adapter from the run configuration.
func New(cfg *config.GlobalConfig) *Adapter {
	return &Adapter{location: cfg.Search.Location}
}

func (a *Adapter) Name() string    { return platformName }
func (a *Adapter) BaseURL() string { return baseURL }

func (a *Adapter) LoggedIn(page browser.Page) bool {
	return page.IsVisible(locatorAccountMenu) && !page.IsVisible(locatorSignInLink)
}

func buildSearchURL(keyword, location string) string {
	params := url.Values{}
	params.Set("q", keyword)
	if location != "" {
		params.Set("l", location)
	}
	return baseURL + "/jobs?" + params.Encode()
}

// Search loads one keyword's results and parses the rendered page. Indeed
// paginates instead of lazy-loading, so a single bottom scroll is enough to
// settle the page before reading it.
func (a *Adapter) Search(ctx context.Context, page browser.Page, keyword string) ([]model.Job, error) {
	if err := page.Navigate(buildSearchURL(keyword, a.location), browser.NavigationTimeout); err != nil {
		return nil, err
	}
	if !page.WaitVisible(locatorJobCard, browser.TriggerTimeout) {
		log.Infof("indeed: no results rendered for %q", keyword)
		return nil, nil
	}

	_ = page.ScrollBottom()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(time.Second):
	}

	html, err := page.Content()
	if err != nil {
		return nil, fmt.Errorf("read results page: %w", err)
	}
	return parseSearch(html, keyword)
}

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

func (a *Adapter) SkipCoverLetter(page browser.Page) (bool, error) {
	found, err := platform.ClickLabelledRadio(page, coverLetterSkipPhrases)
	if found || err != nil {
		return found, err
	}
	return platform.ClickTrigger(page, coverLetterSkipPhrases)
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

// parseSearch extracts listings from a rendered results page. Indeed links
// point at a click-tracking redirect carrying the posting key in the jk
// parameter; they are rewritten to the stable viewjob form.
func parseSearch(html, keyword string) ([]model.Job, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse results html: %w", err)
	}

	var jobs []model.Job
	doc.Find(locatorJobCard).Each(func(_ int, card *goquery.Selection) {
		title := card.Find(locatorJobTitle).First()
		href, ok := title.Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			return
		}
		canonical, err := canonicalJobURL(href)
		if err != nil {
			log.Debugf("indeed: dropping card with bad link %q: %v", href, err)
			return
		}

		salary := strings.TrimSpace(card.Find(locatorJobSalary).First().Text())
		if salary == "" {
			salary = model.SalaryNotListed
		}

		jobs = append(jobs, model.Job{
			Title:    strings.TrimSpace(title.Text()),
			Company:  strings.TrimSpace(card.Find(locatorJobCompany).First().Text()),
			Location: strings.TrimSpace(card.Find(locatorJobLocation).First().Text()),
			WorkType: model.WorkTypeUnspecified,
			Salary:   salary,
			URL:      canonical,
			Platform: platformName,
			Keyword:  keyword,
		})
	})
	return jobs, nil
}

// canonicalJobURL rewrites a card link to the stable /viewjob?jk=... form
// when the posting key is present, then canonicalizes.
func canonicalJobURL(href string) (string, error) {
	if strings.HasPrefix(href, "/") {
		href = baseURL + href
	}
	parsed, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("parse job link %q: %w", href, err)
	}
	if jk := parsed.Query().Get("jk"); jk != "" {
		href = baseURL + "/viewjob?jk=" + url.QueryEscape(jk)
	}
	return model.CanonicalURL(href)
}
