package course

import (
	"context"
	"fmt"

	"github.com/Guoweix/bistu-edu-safety-automation/pkg/logging"
)

// Navigator gets the logged-in session from the platform landing page to
// the course's module listing: click the course banner, click the course
// title, wait for the listing to render. Each click carries an ordered
// selector fallback chain because the landing page markup drifts.
type Navigator struct {
	page   Page
	sel    Selectors
	timing Timing
	log    *logging.Logger
}

// NewNavigator builds a navigator over a live page.
func NewNavigator(page Page, cfg Config, log *logging.Logger) *Navigator {
	return &Navigator{page: page, sel: cfg.Selectors, timing: cfg.Timing, log: log}
}

// EnterCourse drives the entry clicks and waits for the module listing.
func (n *Navigator) EnterCourse(ctx context.Context) error {
	if err := n.clickFirst(ctx, n.sel.EntryBanner, "course banner"); err != nil {
		return err
	}
	sleep(ctx, n.timing.EntrySettle)

	if err := n.clickFirst(ctx, n.sel.EntryCourseTitle, "course title"); err != nil {
		return err
	}
	sleep(ctx, n.timing.EntrySettle)

	if _, err := n.page.WaitForSelector(n.sel.ModuleItem, WaitOptions{Timeout: n.timing.DOMLoadTimeout}); err != nil {
		return fmt.Errorf("module listing never appeared after entry: %w", err)
	}
	return nil
}

// clickFirst waits for the primary selector and clicks it; on failure it
// falls through the remaining selectors with plain queries.
func (n *Navigator) clickFirst(ctx context.Context, selectors []string, what string) error {
	if len(selectors) == 0 {
		return fmt.Errorf("%s: no selectors configured", what)
	}

	var lastErr error
	for i, selector := range selectors {
		var el Element
		var err error
		if i == 0 {
			el, err = n.page.WaitForSelector(selector, WaitOptions{Timeout: n.timing.DOMLoadTimeout})
		} else {
			el, err = n.page.QuerySelector(selector)
		}
		if err != nil || el == nil {
			if err == nil {
				err = fmt.Errorf("no match for %q", selector)
			}
			n.log.Debugf("%s: selector %d: %v", what, i, err)
			lastErr = err
			continue
		}
		if err := el.Click(ClickOptions{Timeout: n.timing.ClickTimeout}); err != nil {
			n.log.Debugf("%s: selector %d click: %v", what, i, err)
			lastErr = err
			continue
		}
		n.log.Infof("clicked %s (selector %d)", what, i)
		return nil
	}
	return fmt.Errorf("%s: all selectors failed: %w", what, lastErr)
}
