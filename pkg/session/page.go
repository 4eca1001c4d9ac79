package session

import (
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/Guoweix/bistu-edu-safety-automation/pkg/course"
)

// Adapters mapping the engine's capability interfaces onto playwright-go.
// They are thin on purpose: every retry, fallback and timeout decision
// lives in pkg/course, not here.

type pageAdapter struct {
	page playwright.Page
}

func (p *pageAdapter) URL() string {
	return p.page.URL()
}

func (p *pageAdapter) QuerySelector(selector string) (course.Element, error) {
	el, err := p.page.QuerySelector(selector)
	if err != nil {
		return nil, err
	}
	return wrapElement(el), nil
}

func (p *pageAdapter) QuerySelectorAll(selector string) ([]course.Element, error) {
	els, err := p.page.QuerySelectorAll(selector)
	if err != nil {
		return nil, err
	}
	return wrapElements(els), nil
}

func (p *pageAdapter) Frames() []course.Frame {
	pwFrames := p.page.Frames()
	frames := make([]course.Frame, 0, len(pwFrames))
	for _, f := range pwFrames {
		frames = append(frames, &frameAdapter{frame: f})
	}
	return frames
}

func (p *pageAdapter) MainFrame() course.Frame {
	return &frameAdapter{frame: p.page.MainFrame()}
}

func (p *pageAdapter) WaitForSelector(selector string, opts course.WaitOptions) (course.Element, error) {
	el, err := p.page.WaitForSelector(selector, playwright.PageWaitForSelectorOptions{
		State:   selectorState(opts.State),
		Timeout: millis(opts.Timeout),
	})
	if err != nil {
		return nil, err
	}
	return wrapElement(el), nil
}

func (p *pageAdapter) WaitForLoadState(state string, timeout time.Duration) error {
	return p.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   loadState(state),
		Timeout: millis(timeout),
	})
}

func (p *pageAdapter) NavigateBack() error {
	_, err := p.page.GoBack()
	return err
}

type frameAdapter struct {
	frame playwright.Frame
}

func (f *frameAdapter) URL() string {
	return f.frame.URL()
}

func (f *frameAdapter) IsMain() bool {
	return f.frame.ParentFrame() == nil
}

func (f *frameAdapter) QuerySelector(selector string) (course.Element, error) {
	el, err := f.frame.QuerySelector(selector)
	if err != nil {
		return nil, err
	}
	return wrapElement(el), nil
}

func (f *frameAdapter) QuerySelectorAll(selector string) ([]course.Element, error) {
	els, err := f.frame.QuerySelectorAll(selector)
	if err != nil {
		return nil, err
	}
	return wrapElements(els), nil
}

func (f *frameAdapter) WaitForSelector(selector string, opts course.WaitOptions) (course.Element, error) {
	el, err := f.frame.WaitForSelector(selector, playwright.FrameWaitForSelectorOptions{
		State:   selectorState(opts.State),
		Timeout: millis(opts.Timeout),
	})
	if err != nil {
		return nil, err
	}
	return wrapElement(el), nil
}

func (f *frameAdapter) Evaluate(script string) (any, error) {
	return f.frame.Evaluate(script)
}

type elementAdapter struct {
	el playwright.ElementHandle
}

func (e *elementAdapter) Click(opts course.ClickOptions) error {
	clickOpts := playwright.ElementHandleClickOptions{
		Timeout: millis(opts.Timeout),
	}
	if opts.Force {
		clickOpts.Force = playwright.Bool(true)
	}
	return e.el.Click(clickOpts)
}

func (e *elementAdapter) ScrollIntoView() error {
	return e.el.ScrollIntoViewIfNeeded()
}

func (e *elementAdapter) GetAttribute(name string) (string, error) {
	return e.el.GetAttribute(name)
}

func (e *elementAdapter) TextContent() (string, error) {
	return e.el.TextContent()
}

func (e *elementAdapter) IsVisible() (bool, error) {
	return e.el.IsVisible()
}

func (e *elementAdapter) Evaluate(script string) (any, error) {
	return e.el.Evaluate(script)
}

func (e *elementAdapter) QuerySelector(selector string) (course.Element, error) {
	el, err := e.el.QuerySelector(selector)
	if err != nil {
		return nil, err
	}
	return wrapElement(el), nil
}

func (e *elementAdapter) QuerySelectorAll(selector string) ([]course.Element, error) {
	els, err := e.el.QuerySelectorAll(selector)
	if err != nil {
		return nil, err
	}
	return wrapElements(els), nil
}

// wrapElement keeps the "no match is (nil, nil)" convention: a nil handle
// must stay a nil course.Element, not a non-nil interface around nil.
func wrapElement(el playwright.ElementHandle) course.Element {
	if el == nil {
		return nil
	}
	return &elementAdapter{el: el}
}

func wrapElements(els []playwright.ElementHandle) []course.Element {
	wrapped := make([]course.Element, 0, len(els))
	for _, el := range els {
		if el != nil {
			wrapped = append(wrapped, &elementAdapter{el: el})
		}
	}
	return wrapped
}

func selectorState(state string) *playwright.WaitForSelectorState {
	switch state {
	case "attached":
		return playwright.WaitForSelectorStateAttached
	case "detached":
		return playwright.WaitForSelectorStateDetached
	case "hidden":
		return playwright.WaitForSelectorStateHidden
	case "visible":
		return playwright.WaitForSelectorStateVisible
	default:
		return nil
	}
}

func loadState(state string) *playwright.LoadState {
	switch state {
	case "load":
		return playwright.LoadStateLoad
	case "networkidle":
		return playwright.LoadStateNetworkidle
	default:
		return playwright.LoadStateDomcontentloaded
	}
}

func millis(d time.Duration) *float64 {
	if d <= 0 {
		return nil
	}
	return playwright.Float(float64(d.Milliseconds()))
}
