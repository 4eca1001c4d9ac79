package course

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/Guoweix/bistu-edu-safety-automation/pkg/logging"
)

// LessonRunner drives one lesson end to end: activate it from the listing,
// resolve its content frame, trigger completion, invoke the platform's
// completion function, and return to the listing. A failed lesson never
// escalates past the runner's Outcome — the walker decides what to do.
type LessonRunner struct {
	page       Page
	sel        Selectors
	timing     Timing
	policy     Policy
	classifier *Classifier
	frames     *FrameResolver
	cooldown   *rate.Limiter
	log        *logging.Logger
}

// NewLessonRunner wires a runner against a live page. The cooldown limiter
// paces lessons; a zero LessonCooldown disables it.
func NewLessonRunner(page Page, cfg Config, log *logging.Logger) (*LessonRunner, error) {
	resolver, err := NewFrameResolver(cfg.Platform)
	if err != nil {
		return nil, err
	}
	var cooldown *rate.Limiter
	if cfg.Timing.LessonCooldown > 0 {
		cooldown = rate.NewLimiter(rate.Every(cfg.Timing.LessonCooldown), 1)
	}
	return &LessonRunner{
		page:       page,
		sel:        cfg.Selectors,
		timing:     cfg.Timing,
		policy:     cfg.Policy,
		classifier: NewClassifier(cfg.Selectors),
		frames:     resolver,
		cooldown:   cooldown,
		log:        log,
	}, nil
}

// Run processes the lesson at lessonPos inside the module at modulePos.
// Both positions are resolved against a fresh read of the listing; if the
// position no longer exists the lesson fails as stale. An already-done
// lesson returns StatusSkipped without a single interaction.
func (r *LessonRunner) Run(ctx context.Context, modulePos, lessonPos int) Outcome {
	module, err := moduleAt(r.page, r.sel, modulePos)
	if err != nil {
		r.log.Warnf("lesson %d/%d: %v", modulePos, lessonPos, err)
		return Outcome{Status: StatusFailed, Reason: ReasonStaleListing}
	}
	lessons, err := module.QuerySelectorAll(r.sel.LessonItem)
	if err != nil || lessonPos < 0 || lessonPos >= len(lessons) {
		r.log.Warnf("lesson %d/%d: listing has %d lessons (err=%v)", modulePos, lessonPos, len(lessons), err)
		return Outcome{Status: StatusFailed, Reason: ReasonStaleListing}
	}
	lesson := lessons[lessonPos]

	if class, err := lesson.GetAttribute("class"); err == nil && r.classifier.IsLessonDone(class) {
		return Outcome{Status: StatusSkipped}
	}

	title := childText(lesson, r.sel.LessonTitle)
	r.log.Infof("starting lesson %d in module %d: %s", lessonPos, modulePos, title)

	if err := r.activate(ctx, lesson); err != nil {
		r.log.Errorf("lesson %q: %v", title, err)
		return Outcome{Status: StatusFailed, Reason: ReasonActivateFailed}
	}

	r.settleAfterNavigation(ctx)

	frame, ok := r.frames.Resolve(r.page.Frames(), r.page.URL())
	if !ok {
		// Degraded: the content selectors will probably miss on the main
		// document, but some lessons render inline.
		r.log.Warnf("lesson %q: no content frame found, using the main document", title)
		frame = r.page.MainFrame()
	} else {
		r.log.Debugf("lesson %q: content frame %s", title, frame.URL())
	}

	if kind := r.classifier.LessonKind(frame); kind == KindVideo {
		r.log.Infof("lesson %q is a video, no trigger needed", title)
	} else if err := r.clickTrigger(ctx, frame); err != nil {
		// Some lessons expose the completion function without a trigger
		// click, so keep going.
		r.log.Warnf("lesson %q: no trigger strategy succeeded (%v), continuing", title, err)
	}

	completed := r.invokeCompletion(ctx, frame)

	r.returnToList(ctx)

	if r.cooldown != nil {
		if err := r.cooldown.Wait(ctx); err != nil {
			r.log.Debugf("cooldown interrupted: %v", err)
		}
	}

	if !completed {
		r.log.Errorf("lesson %q: %v", title, ErrCompletionSignalUnavailable)
		return Outcome{Status: StatusFailed, Reason: ReasonCompletionUnavailable}
	}
	r.log.Infof("lesson %q completed", title)
	return Outcome{Status: StatusCompleted}
}

// activate clicks the lesson row: scroll into view, then direct click,
// force click, script click — each attempted only after the previous one
// errored.
func (r *LessonRunner) activate(ctx context.Context, lesson Element) error {
	if err := lesson.ScrollIntoView(); err != nil {
		r.log.Debugf("scroll into view: %v", err)
	}
	sleep(ctx, r.timing.PreClickSettle)

	err := lesson.Click(ClickOptions{Timeout: r.timing.ClickTimeout})
	if err == nil {
		return nil
	}
	r.log.Debugf("direct click failed: %v", err)

	err = lesson.Click(ClickOptions{Force: true, Timeout: r.timing.ClickTimeout})
	if err == nil {
		return nil
	}
	r.log.Debugf("forced click failed: %v", err)

	if _, err = lesson.Evaluate("el => el.click()"); err != nil {
		return fmt.Errorf("all click strategies failed: %w", err)
	}
	return nil
}

// settleAfterNavigation waits out the lesson page's load and its entry
// animation. The bounded waits are best-effort: a timeout is logged and
// the run proceeds. Reading or triggering anything during the animation
// window is a known source of missed completion triggers.
func (r *LessonRunner) settleAfterNavigation(ctx context.Context) {
	sleep(ctx, r.timing.NavigationSettle)
	if err := r.page.WaitForLoadState("domcontentloaded", r.timing.DOMLoadTimeout); err != nil {
		r.log.Warnf("dom load wait: %v", err)
	}
	sleep(ctx, r.timing.FrameAttachSettle)
	if err := r.page.WaitForLoadState("networkidle", r.timing.NetworkIdleTimeout); err != nil {
		r.log.Warnf("network idle wait: %v", err)
	}
	sleep(ctx, r.timing.AnimationSettle)
}

// clickTrigger walks the ordered trigger strategies and stops at the first
// one whose click lands.
func (r *LessonRunner) clickTrigger(ctx context.Context, frame Frame) error {
	var lastErr error
	for i, strat := range r.sel.Triggers {
		if strat.WaitFor != "" {
			if _, err := frame.WaitForSelector(strat.WaitFor, WaitOptions{State: "visible", Timeout: strat.WaitTimeout}); err != nil {
				r.log.Debugf("trigger strategy %d: wait %q: %v", i, strat.WaitFor, err)
				lastErr = err
				continue
			}
			sleep(ctx, r.timing.PreClickSettle)
		}
		candidates, err := frame.QuerySelectorAll(strat.Click)
		if err != nil || len(candidates) == 0 {
			r.log.Debugf("trigger strategy %d: no match for %q (err=%v)", i, strat.Click, err)
			if err != nil {
				lastErr = err
			}
			continue
		}
		if err := candidates[0].Click(ClickOptions{Timeout: r.timing.ClickTimeout}); err != nil {
			r.log.Debugf("trigger strategy %d: click %q: %v", i, strat.Click, err)
			lastErr = err
			continue
		}
		r.log.Debugf("trigger strategy %d succeeded", i)
		sleep(ctx, r.timing.PostTriggerSettle)
		return nil
	}
	if lastErr == nil {
		lastErr = errors.New("no trigger element matched")
	}
	return lastErr
}

// invokeCompletion polls for the platform's completion function inside the
// content frame and invokes it once present.
func (r *LessonRunner) invokeCompletion(ctx context.Context, frame Frame) bool {
	probe := fmt.Sprintf("() => typeof %s === 'function'", r.sel.CompletionFunction)

	ready := r.completionReady(frame, probe)
	for attempt := 0; !ready && attempt < r.policy.CompletionRechecks; attempt++ {
		r.log.Debugf("%s not yet available, rechecking", r.sel.CompletionFunction)
		sleep(ctx, r.timing.CompletionRecheck)
		ready = r.completionReady(frame, probe)
	}
	if !ready {
		return false
	}

	if _, err := frame.Evaluate(fmt.Sprintf("%s()", r.sel.CompletionFunction)); err != nil {
		r.log.Errorf("invoking %s: %v", r.sel.CompletionFunction, err)
		return false
	}
	sleep(ctx, r.timing.PostCompletion)
	return true
}

func (r *LessonRunner) completionReady(frame Frame, probe string) bool {
	v, err := frame.Evaluate(probe)
	if err != nil {
		r.log.Debugf("completion probe: %v", err)
		return false
	}
	ok, _ := v.(bool)
	return ok
}

// returnToList navigates back to the module listing: the labeled back
// button, then the generic back controls, then browser-level back.
func (r *LessonRunner) returnToList(ctx context.Context) {
	var back Element
	for _, selector := range r.sel.BackControls {
		el, err := r.page.QuerySelector(selector)
		if err == nil && el != nil {
			back = el
			break
		}
	}

	if back != nil {
		if err := back.Click(ClickOptions{Timeout: r.timing.ClickTimeout}); err != nil {
			r.log.Warnf("back control click failed (%v), using browser back", err)
			back = nil
		}
	}
	if back == nil {
		if err := r.page.NavigateBack(); err != nil {
			r.log.Warnf("browser back failed: %v", err)
		}
	}

	sleep(ctx, r.timing.ListResettle)
	if err := r.page.WaitForLoadState("networkidle", r.timing.NetworkIdleTimeout); err != nil {
		r.log.Debugf("list resettle wait: %v", err)
	}
}
