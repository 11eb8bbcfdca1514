// Package browser owns the page-automation surface. Two drivers implement
// it, one on playwright and one on chromedp; everything above this package
// talks to Page and Session and never to a driver directly, so the engine is
// a config switch rather than a code change.
package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Engine names accepted in configuration.
const (
	EnginePlaywright = "playwright"
	EngineChromedp   = "chromedp"
)

// Operation timeouts. Login is the longest because a human is typing;
// in-page waits stay short because absence of a control is an expected
// answer, not a failure.
const (
	LoginTimeout      = 90 * time.Second
	NavigationTimeout = 30 * time.Second
	ConfirmTimeout    = 5 * time.Second
	TriggerTimeout    = 3 * time.Second
	InteractTimeout   = 2 * time.Second
)

// ErrSessionLost marks failures where the tab or browser is gone, as opposed
// to an element merely being absent.
var ErrSessionLost = errors.New("browser session lost")

// Page is one browser tab. Timeouts are explicit on the operations where the
// caller's patience differs by context; the rest use InteractTimeout.
type Page interface {
	// Navigate loads url and returns once the DOM is ready.
	Navigate(url string, timeout time.Duration) error
	// URL reports the current address.
	URL() string
	// Content returns the rendered HTML of the whole document.
	Content() (string, error)
	// BodyText returns the visible text of the whole document.
	BodyText() (string, error)
	// Evaluate runs a JS expression and decodes its JSON result into out.
	// A nil out discards the result.
	Evaluate(script string, out any) error
	// WaitVisible polls until the selector's first match is visible or the
	// timeout lapses, reporting which.
	WaitVisible(selector string, timeout time.Duration) bool
	// IsVisible reports current visibility without waiting.
	IsVisible(selector string) bool
	// Click activates the selector's first match.
	Click(selector string) error
	// Fill replaces the value of a text control.
	Fill(selector, value string) error
	// SelectByLabel picks a dropdown option by its visible label, exact
	// match first, then substring, then value.
	SelectByLabel(selector, label string) error
	// SetFiles attaches local files to a file input.
	SetFiles(selector string, paths ...string) error
	// ScrollBottom scrolls the window to the document end.
	ScrollBottom() error
	// Close closes the tab, not the session.
	Close() error
}

// Session owns one browser instance and hands out pages.
type Session interface {
	NewPage() (Page, error)
	// Alive reports whether the browser still answers; a dead session ends
	// the run, a dead page only ends the current job.
	Alive() bool
	Close() error
}

// Options shape a session launch.
type Options struct {
	Engine     string
	Headless   bool
	ProfileDir string // persistent user-data dir; empty launches a throwaway profile
}

// NewSession launches the configured driver.
func NewSession(opts Options) (Session, error) {
	switch opts.Engine {
	case EngineChromedp:
		return newChromedpSession(opts)
	case EnginePlaywright, "":
		return newPlaywrightSession(opts)
	default:
		return nil, fmt.Errorf("unknown browser engine %q", opts.Engine)
	}
}

// sessionLostMarkers are error-text fragments the drivers emit when the
// target itself is gone.
var sessionLostMarkers = []string{
	"target closed",
	"browser has been closed",
	"context or browser has been closed",
	"page has been closed",
	"execution context was destroyed",
	"browser closed",
	"websocket: close",
	"connection refused",
}

// IsSessionLost classifies an interaction error: true means the page or
// browser went away and retrying selectors is pointless.
func IsSessionLost(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrSessionLost) || errors.Is(err, context.Canceled) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range sessionLostMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
