package course

import (
	"fmt"
	"time"
)

// In-memory fakes for the capability interfaces. They model just enough
// of the platform DOM for the engine: class attributes, child lookups by
// selector, and scriptable click/evaluate behavior so tests can mutate
// the "document" the way the real platform does.

type fakeElement struct {
	class   string
	text    string
	visible bool
	kids    map[string][]Element

	clicks    []ClickOptions
	clickErrs []error // returned in order; exhausted means success
	clickFn   func(opts ClickOptions) error
	scrolls   int
	evals     []string
	evalFn    func(script string) (any, error)
}

func (e *fakeElement) Click(opts ClickOptions) error {
	e.clicks = append(e.clicks, opts)
	if e.clickFn != nil {
		return e.clickFn(opts)
	}
	if len(e.clickErrs) > 0 {
		err := e.clickErrs[0]
		e.clickErrs = e.clickErrs[1:]
		return err
	}
	return nil
}

func (e *fakeElement) ScrollIntoView() error {
	e.scrolls++
	return nil
}

func (e *fakeElement) GetAttribute(name string) (string, error) {
	if name == "class" {
		return e.class, nil
	}
	return "", nil
}

func (e *fakeElement) TextContent() (string, error) { return e.text, nil }

func (e *fakeElement) IsVisible() (bool, error) { return e.visible, nil }

func (e *fakeElement) Evaluate(script string) (any, error) {
	e.evals = append(e.evals, script)
	if e.evalFn != nil {
		return e.evalFn(script)
	}
	return nil, nil
}

func (e *fakeElement) QuerySelector(selector string) (Element, error) {
	if kids := e.kids[selector]; len(kids) > 0 {
		return kids[0], nil
	}
	return nil, nil
}

func (e *fakeElement) QuerySelectorAll(selector string) ([]Element, error) {
	return e.kids[selector], nil
}

type fakeFrame struct {
	url  string
	main bool
	kids map[string][]Element

	waits   []string
	waitErr map[string]error
	evals   []string
	evalFn  func(script string) (any, error)
}

func (f *fakeFrame) URL() string  { return f.url }
func (f *fakeFrame) IsMain() bool { return f.main }

func (f *fakeFrame) QuerySelector(selector string) (Element, error) {
	if kids := f.kids[selector]; len(kids) > 0 {
		return kids[0], nil
	}
	return nil, nil
}

func (f *fakeFrame) QuerySelectorAll(selector string) ([]Element, error) {
	return f.kids[selector], nil
}

func (f *fakeFrame) WaitForSelector(selector string, opts WaitOptions) (Element, error) {
	f.waits = append(f.waits, selector)
	if err := f.waitErr[selector]; err != nil {
		return nil, err
	}
	if kids := f.kids[selector]; len(kids) > 0 {
		return kids[0], nil
	}
	return nil, fmt.Errorf("timeout waiting for %q", selector)
}

func (f *fakeFrame) Evaluate(script string) (any, error) {
	f.evals = append(f.evals, script)
	if f.evalFn != nil {
		return f.evalFn(script)
	}
	return nil, nil
}

type fakePage struct {
	url     string
	modules []*fakeElement
	kids    map[string][]Element
	frames  []Frame

	queryAllErr error
	waitSelErr  map[string]error
	loadErr     map[string]error
	backs       int
}

func (p *fakePage) URL() string { return p.url }

func (p *fakePage) QuerySelector(selector string) (Element, error) {
	if kids := p.kids[selector]; len(kids) > 0 {
		return kids[0], nil
	}
	return nil, nil
}

func (p *fakePage) QuerySelectorAll(selector string) ([]Element, error) {
	if p.queryAllErr != nil {
		return nil, p.queryAllErr
	}
	if selector == DefaultSelectors().ModuleItem {
		els := make([]Element, len(p.modules))
		for i, m := range p.modules {
			els[i] = m
		}
		return els, nil
	}
	return p.kids[selector], nil
}

func (p *fakePage) Frames() []Frame { return p.frames }

func (p *fakePage) MainFrame() Frame {
	return &fakeFrame{url: p.url, main: true}
}

func (p *fakePage) WaitForSelector(selector string, opts WaitOptions) (Element, error) {
	if err := p.waitSelErr[selector]; err != nil {
		return nil, err
	}
	if kids := p.kids[selector]; len(kids) > 0 {
		return kids[0], nil
	}
	return nil, nil
}

func (p *fakePage) WaitForLoadState(state string, timeout time.Duration) error {
	return p.loadErr[state]
}

func (p *fakePage) NavigateBack() error {
	p.backs++
	return nil
}

// newLesson builds a lesson row with the platform's classes.
func newLesson(title string, done bool) *fakeElement {
	class := "img-texts-item"
	if done {
		class += " passed"
	}
	return &fakeElement{
		class:   class,
		visible: true,
		kids: map[string][]Element{
			".title": {&fakeElement{text: title}},
		},
	}
}

// newModule builds a collapsible module row holding the given lessons.
func newModule(title, progress string, expanded bool, lessons ...*fakeElement) *fakeElement {
	class := "van-collapse-item"
	if expanded {
		class += " van-collapse-item--expanded"
	}
	els := make([]Element, len(lessons))
	for i, l := range lessons {
		els[i] = l
	}
	return &fakeElement{
		class: class,
		kids: map[string][]Element{
			".text":                     {&fakeElement{text: title}},
			".count":                    {&fakeElement{text: progress}},
			".van-collapse-item__title": {&fakeElement{}},
			".img-texts-item":           els,
		},
	}
}

// contentFrame builds a frame on the content-hosting domain whose
// completion function reports ready and runs onFinish when invoked.
func contentFrame(onFinish func()) *fakeFrame {
	f := &fakeFrame{
		url:  "https://mcwk.mycourse.cn/course/wx/play",
		kids: map[string][]Element{},
	}
	f.evalFn = func(script string) (any, error) {
		switch script {
		case "() => typeof finishWxCourse === 'function'":
			return true, nil
		case "finishWxCourse()":
			if onFinish != nil {
				onFinish()
			}
			return nil, nil
		}
		return nil, nil
	}
	return f
}

// testConfig is the engine config used by tests: default selectors and
// platform, zero delays, tight budgets.
func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Timing = Timing{}
	cfg.Policy = Policy{MaxLessonFailures: 2, CompletionRechecks: 0}
	return cfg
}
