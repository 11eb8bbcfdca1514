package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	cdppage "github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	log "github.com/sirupsen/logrus"
)

// chromedpSession drives Chrome over the DevTools protocol. Each page is a
// tab context derived from the session context, so per-operation timeouts
// never tear the browser down.
type chromedpSession struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc

	mu    sync.Mutex
	alive bool
}

func newChromedpSession(opts Options) (Session, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("start-maximized", true),
		chromedp.Flag("no-default-browser-check", true),
	)
	if opts.ProfileDir != "" {
		allocOpts = append(allocOpts, chromedp.UserDataDir(opts.ProfileDir))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	ctx, cancel := chromedp.NewContext(allocCtx)

	// Start the browser on the session context itself; later operations run
	// on short-lived derived contexts.
	if err := chromedp.Run(ctx); err != nil {
		cancel()
		allocCancel()
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	log.Infof("chromedp session started (headless=%v, profile=%q)", opts.Headless, opts.ProfileDir)
	return &chromedpSession{ctx: ctx, cancel: cancel, allocCancel: allocCancel, alive: true}, nil
}

func (s *chromedpSession) NewPage() (Page, error) {
	tabCtx, tabCancel := chromedp.NewContext(s.ctx)
	err := chromedp.Run(tabCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		_, err := cdppage.AddScriptToEvaluateOnNewDocument(scriptHideAutomation).Do(ctx)
		return err
	}))
	if err != nil {
		tabCancel()
		return nil, fmt.Errorf("open page: %w", err)
	}
	return &chromedpPage{ctx: tabCtx, cancel: tabCancel}, nil
}

func (s *chromedpSession) Alive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.alive {
		return false
	}
	if s.ctx.Err() != nil {
		s.alive = false
	}
	return s.alive
}

func (s *chromedpSession) Close() error {
	s.mu.Lock()
	s.alive = false
	s.mu.Unlock()

	if err := chromedp.Cancel(s.ctx); err != nil {
		log.Warnf("close browser: %v", err)
	}
	s.cancel()
	s.allocCancel()
	return nil
}

type chromedpPage struct {
	ctx    context.Context
	cancel context.CancelFunc
}

func (p *chromedpPage) run(timeout time.Duration, actions ...chromedp.Action) error {
	ctx, cancel := context.WithTimeout(p.ctx, timeout)
	defer cancel()
	return chromedp.Run(ctx, actions...)
}

func (p *chromedpPage) Navigate(url string, timeout time.Duration) error {
	if err := p.run(timeout, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	return nil
}

func (p *chromedpPage) URL() string {
	var url string
	if err := p.run(InteractTimeout, chromedp.Location(&url)); err != nil {
		return ""
	}
	return url
}

func (p *chromedpPage) Content() (string, error) {
	var html string
	if err := p.run(NavigationTimeout, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("read page content: %w", err)
	}
	return html, nil
}

func (p *chromedpPage) BodyText() (string, error) {
	var text string
	if err := p.Evaluate(scriptBodyText, &text); err != nil {
		return "", err
	}
	return text, nil
}

func (p *chromedpPage) Evaluate(script string, out any) error {
	var raw json.RawMessage
	if err := p.run(InteractTimeout, chromedp.Evaluate(script, &raw)); err != nil {
		return fmt.Errorf("evaluate script: %w", err)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode script result: %w", err)
	}
	return nil
}

func (p *chromedpPage) WaitVisible(selector string, timeout time.Duration) bool {
	return p.run(timeout, chromedp.WaitVisible(selector, chromedp.ByQuery)) == nil
}

func (p *chromedpPage) IsVisible(selector string) bool {
	var visible bool
	if err := p.Evaluate(scriptIsVisible(selector), &visible); err != nil {
		return false
	}
	return visible
}

func (p *chromedpPage) Click(selector string) error {
	return p.run(InteractTimeout, chromedp.Click(selector, chromedp.ByQuery))
}

func (p *chromedpPage) Fill(selector, value string) error {
	return p.run(InteractTimeout,
		chromedp.Clear(selector, chromedp.ByQuery),
		chromedp.SendKeys(selector, value, chromedp.ByQuery),
	)
}

func (p *chromedpPage) SelectByLabel(selector, label string) error {
	var ok bool
	if err := p.Evaluate(scriptSelectByLabel(selector, label), &ok); err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("select %s: no option labelled %q", selector, label)
	}
	return nil
}

func (p *chromedpPage) SetFiles(selector string, paths ...string) error {
	return p.run(InteractTimeout, chromedp.SetUploadFiles(selector, paths, chromedp.ByQuery))
}

func (p *chromedpPage) ScrollBottom() error {
	return p.Evaluate(scriptScrollBottom, nil)
}

func (p *chromedpPage) Close() error {
	p.cancel()
	return nil
}
