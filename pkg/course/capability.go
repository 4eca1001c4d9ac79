package course

import "time"

// ClickOptions configures a single click attempt.
type ClickOptions struct {
	// Force skips actionability checks (visibility, stability)
	Force bool

	// Timeout bounds the attempt; zero means the driver default
	Timeout time.Duration
}

// WaitOptions configures waiting for an element.
type WaitOptions struct {
	// State to wait for: "attached", "detached", "visible", "hidden"
	State string

	// Timeout bounds the wait
	Timeout time.Duration
}

// Element is a handle to a live DOM node. Handles become stale the moment
// the document mutates, so callers re-query immediately before use and
// never hold a handle across an operation that may change the page.
//
// Query methods return (nil, nil) when nothing matches; an error means the
// query itself could not run (detached node, dead session).
type Element interface {
	Click(opts ClickOptions) error
	ScrollIntoView() error
	GetAttribute(name string) (string, error)
	TextContent() (string, error)
	IsVisible() (bool, error)
	Evaluate(script string) (any, error)
	QuerySelector(selector string) (Element, error)
	QuerySelectorAll(selector string) ([]Element, error)
}

// Frame is one embedded document in the page's current frame set.
type Frame interface {
	URL() string
	IsMain() bool
	QuerySelector(selector string) (Element, error)
	QuerySelectorAll(selector string) ([]Element, error)
	WaitForSelector(selector string, opts WaitOptions) (Element, error)
	Evaluate(script string) (any, error)
}

// Page is the minimal browser capability the traversal engine consumes.
// The production implementation lives in pkg/session; tests substitute
// fakes. Every method reads the live document, nothing is cached.
type Page interface {
	URL() string
	QuerySelector(selector string) (Element, error)
	QuerySelectorAll(selector string) ([]Element, error)
	Frames() []Frame
	MainFrame() Frame
	WaitForSelector(selector string, opts WaitOptions) (Element, error)
	WaitForLoadState(state string, timeout time.Duration) error
	NavigateBack() error
}
