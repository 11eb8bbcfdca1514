package seek

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	log "github.com/sirupsen/logrus"

	"github.com/vector81/Jobby/model"
)

// parseSearch extracts job listings from a rendered results page. Cards
// without a usable link are dropped; a card is worthless without the URL the
// catalogue keys on.
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
		if strings.HasPrefix(href, "/") {
			href = baseURL + href
		}
		canonical, err := model.CanonicalURL(href)
		if err != nil {
			log.Debugf("seek: dropping card with bad link %q: %v", href, err)
			return
		}

		salary := text(card, locatorJobSalary)
		if salary == "" {
			salary = model.SalaryNotListed
		}

		jobs = append(jobs, model.Job{
			Title:    strings.TrimSpace(title.Text()),
			Company:  text(card, locatorJobCompany),
			Location: text(card, locatorJobLocation),
			WorkType: model.NormalizeWorkType(text(card, locatorJobWorkType)),
			Salary:   salary,
			URL:      canonical,
			Platform: platformName,
			Keyword:  keyword,
		})
	})
	return jobs, nil
}

func text(card *goquery.Selection, selector string) string {
	return strings.TrimSpace(card.Find(selector).First().Text())
}
