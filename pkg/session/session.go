// Package session owns the browser process and the authenticated page:
// Playwright lifecycle, anti-detection setup, interactive login detection,
// and state dumps. The traversal engine in pkg/course only ever sees the
// capability adapter returned by Page().
package session

import (
	"fmt"
	"io"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/Guoweix/bistu-edu-safety-automation/pkg/course"
	"github.com/Guoweix/bistu-edu-safety-automation/pkg/logging"
)

// Options configures the browser session.
type Options struct {
	// Headless runs the browser without a window. Keep it false for the
	// manual login step.
	Headless bool

	// Viewport dimensions.
	ViewportWidth  int
	ViewportHeight int

	// UserAgent and Locale presented to the platform.
	UserAgent string
	Locale    string

	// LoginTimeout bounds how long WaitForLogin polls.
	LoginTimeout time.Duration
}

// Chromium flags that keep the platform's automation checks quiet.
var launchArgs = []string{
	"--disable-blink-features=AutomationControlled",
	"--disable-dev-shm-usage",
	"--no-sandbox",
}

// Masks navigator.webdriver before any page script runs.
const maskWebdriverScript = `
Object.defineProperty(navigator, 'webdriver', {
    get: () => undefined
});
`

// Session is one live browser with one page.
type Session struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page
	opts    Options
	log     *logging.Logger
}

// Launch installs (if needed) and starts Playwright, then brings up a
// Chromium page with the anti-detection setup applied.
func Launch(opts Options, log *logging.Logger) (*Session, error) {
	runOpts := &playwright.RunOptions{
		Verbose: false,
		Stdout:  io.Discard,
		Stderr:  io.Discard,
	}
	if err := playwright.Install(runOpts); err != nil {
		return nil, fmt.Errorf("installing playwright: %w", err)
	}
	pw, err := playwright.Run(runOpts)
	if err != nil {
		return nil, fmt.Errorf("starting playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
		Args:     launchArgs,
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	contextOpts := playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  opts.ViewportWidth,
			Height: opts.ViewportHeight,
		},
	}
	if opts.UserAgent != "" {
		contextOpts.UserAgent = playwright.String(opts.UserAgent)
	}
	if opts.Locale != "" {
		contextOpts.Locale = playwright.String(opts.Locale)
	}
	context, err := browser.NewContext(contextOpts)
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("creating browser context: %w", err)
	}

	page, err := context.NewPage()
	if err != nil {
		context.Close()
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("creating page: %w", err)
	}
	if err := page.AddInitScript(playwright.Script{Content: playwright.String(maskWebdriverScript)}); err != nil {
		log.Warnf("webdriver mask init script: %v", err)
	}

	log.Infof("browser session up (headless=%v)", opts.Headless)
	return &Session{
		pw:      pw,
		browser: browser,
		context: context,
		page:    page,
		opts:    opts,
		log:     log,
	}, nil
}

// Goto navigates the page and waits for domcontentloaded.
func (s *Session) Goto(url string) error {
	_, err := s.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	})
	if err != nil {
		return fmt.Errorf("navigating to %s: %w", url, err)
	}
	return nil
}

// Page returns the capability adapter the traversal engine consumes.
func (s *Session) Page() course.Page {
	return &pageAdapter{page: s.page}
}

// Close tears down the page, context, browser and Playwright. Errors on
// the way down are ignored; cleanup continues regardless.
func (s *Session) Close() {
	_ = s.page.Close()
	_ = s.context.Close()
	_ = s.browser.Close()
	if err := s.pw.Stop(); err != nil {
		s.log.Warnf("stopping playwright: %v", err)
	}
	s.log.Infof("browser session closed")
}
