package platform

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/vector81/Jobby/browser"
	"github.com/vector81/Jobby/model"
	"github.com/vector81/Jobby/phrase"
)

// Shared DOM routines used by every adapter. Application forms differ far
// less between sites than listing pages do, so question scanning, answer
// filling, and trigger clicking are generic; adapters own only their
// selectors and search plumbing.

// scannedQuestion is the wire shape the scan script returns per control.
type scannedQuestion struct {
	Label   string   `json:"label"`
	Kind    string   `json:"kind"`
	Options []string `json:"options"`
	Index   int      `json:"index"`
}

// ScanQuestions finds every label-bound form control on the current screen.
// The scan script tags each control with a data attribute; the locator handed
// back is a selector on that tag, valid until the page renders a new screen.
func ScanQuestions(page browser.Page) ([]model.ScreeningQuestion, error) {
	var scanned []scannedQuestion
	if err := page.Evaluate(scriptScanQuestions, &scanned); err != nil {
		return nil, fmt.Errorf("scan screening questions: %w", err)
	}

	questions := make([]model.ScreeningQuestion, 0, len(scanned))
	for _, s := range scanned {
		kind, ok := questionKind(s.Kind)
		if !ok {
			continue
		}
		questions = append(questions, model.ScreeningQuestion{
			Label:   strings.ToLower(strings.TrimSpace(s.Label)),
			Kind:    kind,
			Options: s.Options,
			Locator: fmt.Sprintf(`[data-jobby-q="%d"]`, s.Index),
		})
	}
	return questions, nil
}

func questionKind(raw string) (model.QuestionKind, bool) {
	switch raw {
	case "textarea":
		return model.QuestionTextArea, true
	case "select":
		return model.QuestionSelect, true
	case "radio":
		return model.QuestionRadio, true
	case "checkbox":
		return model.QuestionCheckbox, true
	case "text":
		return model.QuestionText, true
	default:
		return "", false
	}
}

// FillQuestion commits answer into the control q points at. A control that
// never becomes interactable is skipped silently; only driver-level failures
// come back as errors.
func FillQuestion(page browser.Page, q model.ScreeningQuestion, answer string) error {
	switch q.Kind {
	case model.QuestionSelect:
		if !page.WaitVisible(q.Locator, browser.InteractTimeout) {
			log.Debugf("select %s not interactable, skipping", q.Locator)
			return nil
		}
		if err := page.SelectByLabel(q.Locator, answer); err != nil {
			if browser.IsSessionLost(err) {
				return err
			}
			log.Debugf("select %s rejected %q: %v", q.Locator, answer, err)
		}
		return nil

	case model.QuestionRadio, model.QuestionCheckbox:
		idx := -1
		for i, opt := range q.Options {
			if phrase.EitherContainsFold(opt, answer) {
				idx = i
				break
			}
		}
		if idx < 0 {
			log.Debugf("no option of %s matches %q", q.Locator, answer)
			return nil
		}
		// The selector targets the input itself, never its label, so the
		// form state actually changes.
		optSelector := fmt.Sprintf(`%s[data-jobby-opt="%d"]`, q.Locator, idx)
		if err := page.Click(optSelector); err != nil {
			if browser.IsSessionLost(err) {
				return err
			}
			log.Debugf("click option %s: %v", optSelector, err)
		}
		return nil

	default:
		if !page.WaitVisible(q.Locator, browser.InteractTimeout) {
			log.Debugf("field %s not interactable, skipping", q.Locator)
			return nil
		}
		if err := page.Fill(q.Locator, answer); err != nil {
			if browser.IsSessionLost(err) {
				return err
			}
			log.Debugf("fill %s: %v", q.Locator, err)
		}
		return nil
	}
}

// ClickTrigger scans the page's enabled, visible clickables and activates the
// first one whose text contains any fragment. Reports whether a match was
// found; a click on a matched element that fails mid-flight still counts as
// found, with the error alongside.
func ClickTrigger(page browser.Page, fragments []string) (bool, error) {
	var texts []string
	if err := page.Evaluate(scriptScanClickables, &texts); err != nil {
		return false, fmt.Errorf("scan clickable elements: %w", err)
	}

	idx := phrase.FirstMatch(texts, fragments)
	if idx < 0 {
		return false, nil
	}

	selector := fmt.Sprintf(`[data-jobby-click="%d"]`, idx)
	if err := page.Click(selector); err != nil {
		return true, fmt.Errorf("click %q: %w", texts[idx], err)
	}
	log.Debugf("clicked trigger %q", texts[idx])
	return true, nil
}

// ClickLabelledRadio finds a label whose text contains any fragment and
// clicks the radio or checkbox input associated with it. Clicking the input
// rather than the label text is what actually flips framework-bound form
// state. Reports whether an input was clicked.
func ClickLabelledRadio(page browser.Page, fragments []string) (bool, error) {
	var labels []string
	if err := page.Evaluate(scriptScanRadioLabels, &labels); err != nil {
		return false, fmt.Errorf("scan radio labels: %w", err)
	}

	idx := phrase.FirstMatch(labels, fragments)
	if idx < 0 {
		return false, nil
	}

	selector := fmt.Sprintf(`[data-jobby-radio="%d"]`, idx)
	if err := page.Click(selector); err != nil {
		return true, fmt.Errorf("click radio %q: %w", labels[idx], err)
	}
	log.Debugf("selected radio %q", labels[idx])
	return true, nil
}

// PageCompleted reports whether the rendered page text carries any of the
// canonical confirmation phrases.
func PageCompleted(page browser.Page) (bool, error) {
	text, err := page.BodyText()
	if err != nil {
		return false, fmt.Errorf("read page text: %w", err)
	}
	return phrase.MatchesAny(text, CompletionPhrases), nil
}
