package course

import (
	"context"
	"fmt"

	"github.com/Guoweix/bistu-edu-safety-automation/pkg/logging"
)

// ModuleWalker drains one module: it repeatedly re-reads the module's
// lesson listing, finds the first incomplete lesson, and hands it to the
// lesson runner until none remain. The listing is never trusted across a
// run — completion and navigation both rebuild it.
type ModuleWalker struct {
	page       Page
	sel        Selectors
	timing     Timing
	policy     Policy
	classifier *Classifier
	runner     *LessonRunner
	log        *logging.Logger
}

// NewModuleWalker wires a walker over a lesson runner.
func NewModuleWalker(page Page, cfg Config, runner *LessonRunner, log *logging.Logger) *ModuleWalker {
	return &ModuleWalker{
		page:       page,
		sel:        cfg.Selectors,
		timing:     cfg.Timing,
		policy:     cfg.Policy,
		classifier: NewClassifier(cfg.Selectors),
		runner:     runner,
		log:        log,
	}
}

// DrainModule completes lessons in the module at pos until no incomplete
// lesson remains. A failed lesson is retried after a backoff; a lesson
// that keeps failing is written off once its failure budget is spent, so
// the loop always terminates. Returns the number of lessons completed and
// the written-off failures.
func (w *ModuleWalker) DrainModule(ctx context.Context, pos int) (int, []LessonFailure, error) {
	completed := 0
	var failures []LessonFailure
	failCount := make(map[int]int) // lesson position -> consecutive failures
	writtenOff := make(map[int]bool)

	for {
		if err := ctx.Err(); err != nil {
			return completed, failures, err
		}

		module, err := moduleAt(w.page, w.sel, pos)
		if err != nil {
			return completed, failures, err
		}

		module, err = w.ensureExpanded(ctx, module, pos)
		if err != nil {
			return completed, failures, err
		}

		lessons, err := module.QuerySelectorAll(w.sel.LessonItem)
		if err != nil {
			return completed, failures, fmt.Errorf("lesson listing query: %w", err)
		}

		target := -1
		title := ""
		for i, lesson := range lessons {
			if writtenOff[i] {
				continue
			}
			class, err := lesson.GetAttribute("class")
			if err != nil {
				continue
			}
			if !w.classifier.IsLessonDone(class) {
				target = i
				title = childText(lesson, w.sel.LessonTitle)
				break
			}
		}
		if target < 0 {
			w.log.Infof("module %d drained, %d lessons completed", pos, completed)
			return completed, failures, nil
		}

		outcome := w.runner.Run(ctx, pos, target)
		switch outcome.Status {
		case StatusCompleted:
			completed++
			delete(failCount, target)
		case StatusSkipped:
			// Marker flipped between our scan and the runner's re-read.
			// The next scan will move past it.
			w.log.Debugf("module %d lesson %d already done on re-read", pos, target)
		case StatusFailed:
			failCount[target]++
			w.log.Warnf("module %d lesson %d failed (%s), attempt %d/%d",
				pos, target, outcome.Reason, failCount[target], w.policy.MaxLessonFailures)
			if failCount[target] >= w.policy.MaxLessonFailures {
				writtenOff[target] = true
				failures = append(failures, LessonFailure{
					Module:      pos,
					Lesson:      target,
					LessonTitle: title,
					Reason:      outcome.Reason,
				})
				w.log.Errorf("module %d lesson %d written off after %d failures: %s",
					pos, target, failCount[target], outcome.Reason)
			} else {
				sleep(ctx, w.timing.FailureBackoff)
			}
		}
	}
}

// ensureExpanded expands the module if its expanded marker is absent and
// returns a fresh handle, since the expand click rebuilds the listing.
func (w *ModuleWalker) ensureExpanded(ctx context.Context, module Element, pos int) (Element, error) {
	if hasClassToken(module, w.sel.ExpandedMarker) {
		return module, nil
	}

	header, err := module.QuerySelector(w.sel.ModuleHeader)
	if err != nil || header == nil {
		return nil, fmt.Errorf("module %d has no header to expand: %w", pos, ErrStructuralMismatch)
	}
	if err := header.Click(ClickOptions{Timeout: w.timing.ClickTimeout}); err != nil {
		return nil, fmt.Errorf("expanding module %d: %w", pos, err)
	}
	w.log.Debugf("expanded module %d", pos)
	sleep(ctx, w.timing.ExpandSettle)

	return moduleAt(w.page, w.sel, pos)
}
