package course

import "time"

// Kind classifies what a lesson's content frame requires from us.
type Kind int

const (
	// KindInteractive lessons expose a trigger element that must be
	// clicked before the completion function becomes available.
	KindInteractive Kind = iota

	// KindVideo lessons play on their own; no trigger click is needed.
	KindVideo
)

func (k Kind) String() string {
	if k == KindVideo {
		return "video"
	}
	return "interactive"
}

// OutcomeStatus is the result of running a single lesson.
type OutcomeStatus int

const (
	// StatusCompleted means the completion function was invoked.
	StatusCompleted OutcomeStatus = iota

	// StatusSkipped means the lesson already carried the done marker.
	StatusSkipped

	// StatusFailed means the lesson was abandoned; Outcome.Reason says why.
	StatusFailed
)

func (s OutcomeStatus) String() string {
	switch s {
	case StatusCompleted:
		return "completed"
	case StatusSkipped:
		return "skipped"
	default:
		return "failed"
	}
}

// Outcome is what the lesson runner reports back to the module walker.
type Outcome struct {
	Status OutcomeStatus
	Reason string // populated when Status == StatusFailed
}

// Failure reasons recorded in outcomes and the traversal result.
const (
	ReasonStaleListing          = "listing position vanished"
	ReasonActivateFailed        = "lesson could not be activated"
	ReasonCompletionUnavailable = "completion function never appeared"
)

// ModuleState tracks where a module is in the traversal.
type ModuleState int

const (
	ModulePending ModuleState = iota
	ModuleDraining
	ModuleDone
	ModuleFailed
)

func (s ModuleState) String() string {
	switch s {
	case ModulePending:
		return "pending"
	case ModuleDraining:
		return "draining"
	case ModuleDone:
		return "done"
	default:
		return "failed"
	}
}

// LessonFailure records a lesson abandoned after its retry budget ran out.
type LessonFailure struct {
	Module      int
	ModuleTitle string
	Lesson      int
	LessonTitle string
	Reason      string
}

// ModuleReport is the per-module line of the run summary.
type ModuleReport struct {
	Position int
	Title    string
	Done     int
	Total    int
	State    ModuleState
}

// TraversalResult is the per-run output of the traversal controller.
type TraversalResult struct {
	ModulesSeen      int
	LessonsCompleted int
	Modules          []ModuleReport
	Failures         []LessonFailure
}

// Platform identifies the course platform the engine drives.
type Platform struct {
	// BaseURL is the landing page opened for login.
	BaseURL string

	// Domain is the outer page's own domain. Frames on it are never
	// content frames.
	Domain string

	// ContentDomainPattern is a glob matched against frame URLs to find
	// the platform's content-hosting domain.
	ContentDomainPattern string
}

// TriggerStrategy is one entry of the ordered trigger-location chain.
type TriggerStrategy struct {
	// WaitFor, when set, is waited on (visible) before clicking.
	WaitFor string

	// WaitTimeout bounds that wait.
	WaitTimeout time.Duration

	// Click is the selector whose first match gets clicked.
	Click string
}

// Selectors names every piece of the platform UI the engine touches.
// All of them are configuration, not constants: the platform ships DOM
// changes without notice.
type Selectors struct {
	ModuleItem     string // one collapsible module in the listing
	ModuleTitle    string // title text inside a module
	ModuleProgress string // "done/total" indicator inside a module
	ModuleHeader   string // clickable header that expands a module
	ExpandedMarker string // class token present on an expanded module

	LessonItem  string // one lesson row inside an expanded module
	LessonTitle string // title text inside a lesson row
	DoneMarker  string // class token present on a completed lesson

	VideoHint         string // selector for the hint paragraph in the content frame
	VideoHintFragment string // text fragment that identifies a video lesson

	Triggers []TriggerStrategy // trigger-element strategies, tried in order

	CompletionFunction string // platform function that marks a lesson finished

	BackControls []string // return-to-list controls, tried in order

	EntryBanner      []string // course entry: banner image click fallbacks
	EntryCourseTitle []string // course entry: course title click fallbacks
}

// Timing holds every settle window and bounded wait the engine uses.
// The fixed delays are empirically tuned for the platform's animations
// and list refreshes; all of them are configurable.
type Timing struct {
	EntrySettle        time.Duration // after each course-entry click
	ExpandSettle       time.Duration // after expanding/collapsing a module
	PreClickSettle     time.Duration // after scrolling a lesson into view
	ClickTimeout       time.Duration // per click attempt
	NavigationSettle   time.Duration // after activating a lesson
	DOMLoadTimeout     time.Duration // bounded wait for domcontentloaded
	FrameAttachSettle  time.Duration // let placeholder frames resolve
	NetworkIdleTimeout time.Duration // bounded wait for network idle
	AnimationSettle    time.Duration // entry animation window, no reads during it
	PostTriggerSettle  time.Duration // after clicking a trigger element
	CompletionRecheck  time.Duration // between completion-function polls
	PostCompletion     time.Duration // after invoking the completion function
	ListResettle       time.Duration // after returning to the listing
	LessonCooldown     time.Duration // courtesy delay between lessons
	FailureBackoff     time.Duration // before retrying a failed lesson
}

// Policy holds the finite budgets that guarantee the traversal terminates.
type Policy struct {
	// MaxLessonFailures is how many failed runs a single lesson position
	// gets before it is written off for the rest of the module.
	MaxLessonFailures int

	// CompletionRechecks is how many extra polls the runner makes for
	// the completion function after the first miss.
	CompletionRechecks int
}

// Config bundles everything the traversal engine needs besides the page.
type Config struct {
	Platform  Platform
	Selectors Selectors
	Timing    Timing
	Policy    Policy
}
