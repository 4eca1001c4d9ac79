// Package config loads the autopilot's YAML configuration. Everything has
// a default tuned for the Weiban platform; the file only needs the fields
// being overridden.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Guoweix/bistu-edu-safety-automation/pkg/course"
)

// Duration is a time.Duration that unmarshals from YAML strings like
// "30s" or "2m".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(dur)
	return nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Session configures the browser session collaborator.
type Session struct {
	Headless       bool     `yaml:"headless"`
	LoginTimeout   Duration `yaml:"login_timeout"`
	UserAgent      string   `yaml:"user_agent"`
	Locale         string   `yaml:"locale"`
	ViewportWidth  int      `yaml:"viewport_width"`
	ViewportHeight int      `yaml:"viewport_height"`
	StateFile      string   `yaml:"state_file"`
	ScreenshotFile string   `yaml:"screenshot_file"`
}

// Trigger is one YAML entry of the trigger-strategy chain.
type Trigger struct {
	WaitFor     string   `yaml:"wait_for"`
	WaitTimeout Duration `yaml:"wait_timeout"`
	Click       string   `yaml:"click"`
}

// File is the YAML schema. Zero values mean "keep the default".
type File struct {
	Platform struct {
		BaseURL              string `yaml:"base_url"`
		Domain               string `yaml:"domain"`
		ContentDomainPattern string `yaml:"content_domain_pattern"`
	} `yaml:"platform"`

	Session Session `yaml:"session"`

	Selectors struct {
		ModuleItem     string `yaml:"module_item"`
		ModuleTitle    string `yaml:"module_title"`
		ModuleProgress string `yaml:"module_progress"`
		ModuleHeader   string `yaml:"module_header"`
		ExpandedMarker string `yaml:"expanded_marker"`

		LessonItem  string `yaml:"lesson_item"`
		LessonTitle string `yaml:"lesson_title"`
		DoneMarker  string `yaml:"done_marker"`

		VideoHint         string `yaml:"video_hint"`
		VideoHintFragment string `yaml:"video_hint_fragment"`

		Triggers []Trigger `yaml:"triggers"`

		CompletionFunction string `yaml:"completion_function"`

		BackControls     []string `yaml:"back_controls"`
		EntryBanner      []string `yaml:"entry_banner"`
		EntryCourseTitle []string `yaml:"entry_course_title"`
	} `yaml:"selectors"`

	Timing struct {
		EntrySettle        Duration `yaml:"entry_settle"`
		ExpandSettle       Duration `yaml:"expand_settle"`
		PreClickSettle     Duration `yaml:"pre_click_settle"`
		ClickTimeout       Duration `yaml:"click_timeout"`
		NavigationSettle   Duration `yaml:"navigation_settle"`
		DOMLoadTimeout     Duration `yaml:"dom_load_timeout"`
		FrameAttachSettle  Duration `yaml:"frame_attach_settle"`
		NetworkIdleTimeout Duration `yaml:"network_idle_timeout"`
		AnimationSettle    Duration `yaml:"animation_settle"`
		PostTriggerSettle  Duration `yaml:"post_trigger_settle"`
		CompletionRecheck  Duration `yaml:"completion_recheck"`
		PostCompletion     Duration `yaml:"post_completion"`
		ListResettle       Duration `yaml:"list_resettle"`
		LessonCooldown     Duration `yaml:"lesson_cooldown"`
		FailureBackoff     Duration `yaml:"failure_backoff"`
	} `yaml:"timing"`

	Walker struct {
		MaxLessonFailures  int `yaml:"max_lesson_failures"`
		CompletionRechecks int `yaml:"completion_rechecks"`
	} `yaml:"walker"`
}

// DefaultSession returns the session settings matching the reference
// setup: visible browser for the manual login, desktop Chrome identity.
func DefaultSession() Session {
	return Session{
		Headless:       false,
		LoginTimeout:   Duration(2 * time.Minute),
		UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		Locale:         "zh-CN",
		ViewportWidth:  1920,
		ViewportHeight: 1080,
		StateFile:      "browser_state.json",
	}
}

// Load reads the YAML file at path (empty path means defaults only) and
// returns the engine config plus session settings, with file values
// layered over the defaults.
func Load(path string) (course.Config, Session, error) {
	cfg := course.DefaultConfig()
	sess := DefaultSession()

	if path == "" {
		return cfg, sess, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, sess, fmt.Errorf("reading config: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return cfg, sess, fmt.Errorf("parsing config: %w", err)
	}

	apply(&cfg, &sess, &f)
	return cfg, sess, nil
}

func apply(cfg *course.Config, sess *Session, f *File) {
	setStr(&cfg.Platform.BaseURL, f.Platform.BaseURL)
	setStr(&cfg.Platform.Domain, f.Platform.Domain)
	setStr(&cfg.Platform.ContentDomainPattern, f.Platform.ContentDomainPattern)

	if f.Session.LoginTimeout != 0 {
		sess.LoginTimeout = f.Session.LoginTimeout
	}
	sess.Headless = sess.Headless || f.Session.Headless
	setStr(&sess.UserAgent, f.Session.UserAgent)
	setStr(&sess.Locale, f.Session.Locale)
	if f.Session.ViewportWidth > 0 {
		sess.ViewportWidth = f.Session.ViewportWidth
	}
	if f.Session.ViewportHeight > 0 {
		sess.ViewportHeight = f.Session.ViewportHeight
	}
	setStr(&sess.StateFile, f.Session.StateFile)
	setStr(&sess.ScreenshotFile, f.Session.ScreenshotFile)

	s := &cfg.Selectors
	setStr(&s.ModuleItem, f.Selectors.ModuleItem)
	setStr(&s.ModuleTitle, f.Selectors.ModuleTitle)
	setStr(&s.ModuleProgress, f.Selectors.ModuleProgress)
	setStr(&s.ModuleHeader, f.Selectors.ModuleHeader)
	setStr(&s.ExpandedMarker, f.Selectors.ExpandedMarker)
	setStr(&s.LessonItem, f.Selectors.LessonItem)
	setStr(&s.LessonTitle, f.Selectors.LessonTitle)
	setStr(&s.DoneMarker, f.Selectors.DoneMarker)
	setStr(&s.VideoHint, f.Selectors.VideoHint)
	setStr(&s.VideoHintFragment, f.Selectors.VideoHintFragment)
	setStr(&s.CompletionFunction, f.Selectors.CompletionFunction)
	if len(f.Selectors.Triggers) > 0 {
		s.Triggers = s.Triggers[:0]
		for _, t := range f.Selectors.Triggers {
			s.Triggers = append(s.Triggers, course.TriggerStrategy{
				WaitFor:     t.WaitFor,
				WaitTimeout: t.WaitTimeout.Std(),
				Click:       t.Click,
			})
		}
	}
	if len(f.Selectors.BackControls) > 0 {
		s.BackControls = f.Selectors.BackControls
	}
	if len(f.Selectors.EntryBanner) > 0 {
		s.EntryBanner = f.Selectors.EntryBanner
	}
	if len(f.Selectors.EntryCourseTitle) > 0 {
		s.EntryCourseTitle = f.Selectors.EntryCourseTitle
	}

	tm := &cfg.Timing
	setDur(&tm.EntrySettle, f.Timing.EntrySettle)
	setDur(&tm.ExpandSettle, f.Timing.ExpandSettle)
	setDur(&tm.PreClickSettle, f.Timing.PreClickSettle)
	setDur(&tm.ClickTimeout, f.Timing.ClickTimeout)
	setDur(&tm.NavigationSettle, f.Timing.NavigationSettle)
	setDur(&tm.DOMLoadTimeout, f.Timing.DOMLoadTimeout)
	setDur(&tm.FrameAttachSettle, f.Timing.FrameAttachSettle)
	setDur(&tm.NetworkIdleTimeout, f.Timing.NetworkIdleTimeout)
	setDur(&tm.AnimationSettle, f.Timing.AnimationSettle)
	setDur(&tm.PostTriggerSettle, f.Timing.PostTriggerSettle)
	setDur(&tm.CompletionRecheck, f.Timing.CompletionRecheck)
	setDur(&tm.PostCompletion, f.Timing.PostCompletion)
	setDur(&tm.ListResettle, f.Timing.ListResettle)
	setDur(&tm.LessonCooldown, f.Timing.LessonCooldown)
	setDur(&tm.FailureBackoff, f.Timing.FailureBackoff)

	if f.Walker.MaxLessonFailures > 0 {
		cfg.Policy.MaxLessonFailures = f.Walker.MaxLessonFailures
	}
	if f.Walker.CompletionRechecks > 0 {
		cfg.Policy.CompletionRechecks = f.Walker.CompletionRechecks
	}
}

func setStr(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDur(dst *time.Duration, v Duration) {
	if v != 0 {
		*dst = v.Std()
	}
}
