package browser

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
	log "github.com/sirupsen/logrus"
)

// launchArgs soften the automation fingerprint; the init script handles the
// rest once a document exists.
var launchArgs = []string{
	"--disable-blink-features=AutomationControlled",
	"--start-maximized",
	"--no-default-browser-check",
}

// playwrightSession drives Chromium through playwright. With a profile dir it
// launches a persistent context so logins survive restarts; without one it
// runs a throwaway context.
type playwrightSession struct {
	pw      *playwright.Playwright
	browser playwright.Browser // nil in persistent-context mode
	context playwright.BrowserContext

	mu    sync.Mutex
	alive bool
}

func newPlaywrightSession(opts Options) (Session, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("start playwright: %w", err)
	}

	s := &playwrightSession{pw: pw, alive: true}

	if opts.ProfileDir != "" {
		context, err := pw.Chromium.LaunchPersistentContext(opts.ProfileDir,
			playwright.BrowserTypeLaunchPersistentContextOptions{
				Headless: playwright.Bool(opts.Headless),
				Args:     launchArgs,
			})
		if err != nil {
			_ = pw.Stop()
			return nil, fmt.Errorf("launch persistent browser: %w", err)
		}
		s.context = context
	} else {
		browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
			Headless: playwright.Bool(opts.Headless),
			Args:     launchArgs,
		})
		if err != nil {
			_ = pw.Stop()
			return nil, fmt.Errorf("launch browser: %w", err)
		}
		context, err := browser.NewContext()
		if err != nil {
			_ = browser.Close()
			_ = pw.Stop()
			return nil, fmt.Errorf("create browser context: %w", err)
		}
		s.browser = browser
		s.context = context
	}

	if err := s.context.AddInitScript(playwright.Script{Content: playwright.String(scriptHideAutomation)}); err != nil {
		log.Warnf("install init script: %v", err)
	}
	s.context.OnClose(func(playwright.BrowserContext) {
		s.mu.Lock()
		s.alive = false
		s.mu.Unlock()
	})

	log.Infof("playwright session started (headless=%v, profile=%q)", opts.Headless, opts.ProfileDir)
	return s, nil
}

func (s *playwrightSession) NewPage() (Page, error) {
	page, err := s.context.NewPage()
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	page.SetDefaultTimeout(float64(NavigationTimeout.Milliseconds()))
	return &playwrightPage{page: page}, nil
}

func (s *playwrightSession) Alive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.alive {
		return false
	}
	if s.browser != nil && !s.browser.IsConnected() {
		s.alive = false
	}
	return s.alive
}

func (s *playwrightSession) Close() error {
	s.mu.Lock()
	s.alive = false
	s.mu.Unlock()

	if s.context != nil {
		if err := s.context.Close(); err != nil {
			log.Warnf("close browser context: %v", err)
		}
	}
	if s.browser != nil {
		if err := s.browser.Close(); err != nil {
			log.Warnf("close browser: %v", err)
		}
	}
	if s.pw != nil {
		if err := s.pw.Stop(); err != nil {
			return fmt.Errorf("stop playwright: %w", err)
		}
	}
	return nil
}

type playwrightPage struct {
	page playwright.Page
}

func (p *playwrightPage) Navigate(url string, timeout time.Duration) error {
	_, err := p.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(float64(timeout.Milliseconds())),
	})
	if err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	return nil
}

func (p *playwrightPage) URL() string {
	return p.page.URL()
}

func (p *playwrightPage) Content() (string, error) {
	return p.page.Content()
}

func (p *playwrightPage) BodyText() (string, error) {
	var text string
	if err := p.Evaluate(scriptBodyText, &text); err != nil {
		return "", err
	}
	return text, nil
}

// Evaluate round-trips the driver's result through JSON so callers decode
// into their own types regardless of what the driver hands back.
func (p *playwrightPage) Evaluate(script string, out any) error {
	result, err := p.page.Evaluate(script)
	if err != nil {
		return fmt.Errorf("evaluate script: %w", err)
	}
	if out == nil {
		return nil
	}
	encoded, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode script result: %w", err)
	}
	if err := json.Unmarshal(encoded, out); err != nil {
		return fmt.Errorf("decode script result: %w", err)
	}
	return nil
}

func (p *playwrightPage) WaitVisible(selector string, timeout time.Duration) bool {
	err := p.page.Locator(selector).First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
	return err == nil
}

func (p *playwrightPage) IsVisible(selector string) bool {
	visible, err := p.page.Locator(selector).First().IsVisible()
	return err == nil && visible
}

func (p *playwrightPage) Click(selector string) error {
	return p.page.Locator(selector).First().Click(playwright.LocatorClickOptions{
		Timeout: playwright.Float(float64(InteractTimeout.Milliseconds())),
	})
}

func (p *playwrightPage) Fill(selector, value string) error {
	return p.page.Locator(selector).First().Fill(value, playwright.LocatorFillOptions{
		Timeout: playwright.Float(float64(InteractTimeout.Milliseconds())),
	})
}

func (p *playwrightPage) SelectByLabel(selector, label string) error {
	_, err := p.page.Locator(selector).First().SelectOption(playwright.SelectOptionValues{
		Labels: &[]string{label},
	}, playwright.LocatorSelectOptionOptions{
		Timeout: playwright.Float(float64(InteractTimeout.Milliseconds())),
	})
	if err == nil {
		return nil
	}

	// Exact label missed; fall back to the fuzzy in-page strategy.
	var ok bool
	if evalErr := p.Evaluate(scriptSelectByLabel(selector, label), &ok); evalErr != nil {
		return evalErr
	}
	if !ok {
		return fmt.Errorf("select %s: no option labelled %q", selector, label)
	}
	return nil
}

func (p *playwrightPage) SetFiles(selector string, paths ...string) error {
	return p.page.Locator(selector).First().SetInputFiles(paths)
}

func (p *playwrightPage) ScrollBottom() error {
	return p.Evaluate(scriptScrollBottom, nil)
}

func (p *playwrightPage) Close() error {
	return p.page.Close()
}
