package course

import "time"

// DefaultConfig returns the engine configuration for the Weiban platform
// as it ships today. Every value can be overridden from the config file.
func DefaultConfig() Config {
	return Config{
		Platform: Platform{
			BaseURL:              "https://weiban.mycourse.cn/#/",
			Domain:               "weiban.mycourse.cn",
			ContentDomainPattern: "*mcwk.mycourse.cn*",
		},
		Selectors: DefaultSelectors(),
		Timing:    DefaultTiming(),
		Policy: Policy{
			MaxLessonFailures:  3,
			CompletionRechecks: 1,
		},
	}
}

// DefaultSelectors returns the selector set for the platform's Vant-based
// course UI.
func DefaultSelectors() Selectors {
	return Selectors{
		ModuleItem:     ".van-collapse-item",
		ModuleTitle:    ".text",
		ModuleProgress: ".count",
		ModuleHeader:   ".van-collapse-item__title",
		ExpandedMarker: "van-collapse-item--expanded",

		LessonItem:  ".img-texts-item",
		LessonTitle: ".title",
		DoneMarker:  "passed",

		VideoHint:         "p.txt-des",
		VideoHintFragment: "建议在wifi环境下观看",

		Triggers: []TriggerStrategy{
			{WaitFor: ".btn-start, a.btn-start", WaitTimeout: 20 * time.Second, Click: ".btn-start"},
			{WaitFor: `img[src*="btn-start"]`, WaitTimeout: 10 * time.Second, Click: `a:has(img[src*="btn-start"])`},
			{Click: ".pri-start-btn"},
			{Click: `a[class*="start"], button[class*="start"]`},
		},

		CompletionFunction: "finishWxCourse",

		BackControls: []string{
			`button.comment-footer-button:has-text("返回列表")`,
			".comment-footer-button",
			`.van-nav-bar__left, .back-btn, [class*="back"]`,
		},

		EntryBanner: []string{
			`img[src*="lab-title-thin"]`,
			`img[data-v-fa5cdbae][alt=""]`,
		},
		EntryCourseTitle: []string{
			`h5.block-title:has-text("实验室安全教育")`,
			"h5.block-title",
		},
	}
}

// DefaultTiming returns the settle windows and bounded waits tuned against
// the live platform. Clicking through animations too early is the main
// cause of missed completion triggers, hence the generous settle values.
func DefaultTiming() Timing {
	return Timing{
		EntrySettle:        3 * time.Second,
		ExpandSettle:       2 * time.Second,
		PreClickSettle:     time.Second,
		ClickTimeout:       5 * time.Second,
		NavigationSettle:   3 * time.Second,
		DOMLoadTimeout:     10 * time.Second,
		FrameAttachSettle:  3 * time.Second,
		NetworkIdleTimeout: 10 * time.Second,
		AnimationSettle:    5 * time.Second,
		PostTriggerSettle:  5 * time.Second,
		CompletionRecheck:  10 * time.Second,
		PostCompletion:     3 * time.Second,
		ListResettle:       3 * time.Second,
		LessonCooldown:     15 * time.Second,
		FailureBackoff:     10 * time.Second,
	}
}
