package course

import (
	"context"
	"fmt"

	"github.com/Guoweix/bistu-edu-safety-automation/pkg/logging"
)

// TraversalController walks every module in document order, skipping the
// ones whose progress says there is nothing to do and draining the rest.
// One module's failure never stops the run; the controller records it and
// advances. It is the only component holding cross-module state, and that
// state is just the result being accumulated.
type TraversalController struct {
	page   Page
	sel    Selectors
	timing Timing
	walker *ModuleWalker
	log    *logging.Logger
}

// NewTraversalController builds the full engine stack over a live page.
func NewTraversalController(page Page, cfg Config, log *logging.Logger) (*TraversalController, error) {
	runner, err := NewLessonRunner(page, cfg, log)
	if err != nil {
		return nil, err
	}
	return &TraversalController{
		page:   page,
		sel:    cfg.Selectors,
		timing: cfg.Timing,
		walker: NewModuleWalker(page, cfg, runner, log),
		log:    log,
	}, nil
}

// Run traverses all modules and returns the per-run result. The result is
// returned even on error, so a dying session still yields the partial
// summary. Context cancellation is honored between modules — the only
// safe interruption point, since a half-processed lesson leaves the
// platform state ambiguous.
func (t *TraversalController) Run(ctx context.Context) (*TraversalResult, error) {
	result := &TraversalResult{}

	if _, err := t.page.WaitForSelector(t.sel.ModuleItem, WaitOptions{Timeout: t.timing.DOMLoadTimeout}); err != nil {
		return result, fmt.Errorf("module listing never appeared: %w", err)
	}
	sleep(ctx, t.timing.ExpandSettle)

	for pos := 0; ; pos++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		modules, err := t.page.QuerySelectorAll(t.sel.ModuleItem)
		if err != nil {
			// The page itself is gone; surface it with the partial result.
			return result, fmt.Errorf("module listing query: %w", err)
		}
		if pos >= len(modules) {
			break
		}
		module := modules[pos]

		title := childText(module, t.sel.ModuleTitle)
		done, total := ParseProgress(childText(module, t.sel.ModuleProgress))
		result.ModulesSeen++
		report := ModuleReport{Position: pos, Title: title, Done: done, Total: total}

		if !NeedsDraining(done, total) {
			t.log.Infof("module %d (%s) at %d/%d, nothing to drain", pos, title, done, total)
			report.State = ModuleDone
			result.Modules = append(result.Modules, report)
			continue
		}

		t.log.Infof("module %d (%s) at %d/%d, draining", pos, title, done, total)
		completed, failures, err := t.walker.DrainModule(ctx, pos)
		result.LessonsCompleted += completed
		for i := range failures {
			failures[i].ModuleTitle = title
		}
		result.Failures = append(result.Failures, failures...)

		switch {
		case err != nil && ctx.Err() != nil:
			report.State = ModuleFailed
			result.Modules = append(result.Modules, report)
			return result, err
		case err != nil:
			t.log.Errorf("module %d (%s) failed: %v", pos, title, err)
			report.State = ModuleFailed
		case len(failures) > 0:
			report.State = ModuleFailed
		default:
			report.State = ModuleDone
		}
		result.Modules = append(result.Modules, report)
	}

	t.log.Infof("traversal finished: %d modules seen, %d lessons completed, %d lessons failed",
		result.ModulesSeen, result.LessonsCompleted, len(result.Failures))
	return result, nil
}
