package course

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Guoweix/bistu-edu-safety-automation/pkg/logging"
)

func newTestController(t *testing.T, page *fakePage, cfg Config) *TraversalController {
	t.Helper()
	c, err := NewTraversalController(page, cfg, logging.Discard("test"))
	require.NoError(t, err)
	return c
}

func TestTraversalSkipsModulesWithNothingToDo(t *testing.T) {
	pending := newLesson("pending", false)
	frame := contentFrame(func() { pending.class += " passed" })
	withTrigger(frame)

	page := &fakePage{
		url: listingURL,
		modules: []*fakeElement{
			newModule("完成的模块", "3/3", true, newLesson("a", true)),
			newModule("空模块", "0/0", true),
			newModule("待处理模块", "0/1", true, pending),
		},
		frames: []Frame{frame},
	}
	controller := newTestController(t, page, testConfig())

	result, err := controller.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, result.ModulesSeen)
	assert.Equal(t, 1, result.LessonsCompleted)
	assert.Empty(t, result.Failures)
	require.Len(t, result.Modules, 3)
	assert.Equal(t, ModuleDone, result.Modules[0].State)
	assert.Equal(t, ModuleDone, result.Modules[1].State)
	assert.Equal(t, ModuleDone, result.Modules[2].State)
	assert.Equal(t, "待处理模块", result.Modules[2].Title)
	assert.Len(t, pending.clicks, 1)
}

func TestTraversalModuleFailureDoesNotHaltTheRun(t *testing.T) {
	// Module 0 cannot be expanded (no header), module 1 drains cleanly.
	brokenModule := newModule("坏模块", "0/1", false, newLesson("a", false))
	delete(brokenModule.kids, ".van-collapse-item__title")

	pending := newLesson("pending", false)
	frame := contentFrame(func() { pending.class += " passed" })
	withTrigger(frame)

	page := &fakePage{
		url: listingURL,
		modules: []*fakeElement{
			brokenModule,
			newModule("好模块", "0/1", true, pending),
		},
		frames: []Frame{frame},
	}
	controller := newTestController(t, page, testConfig())

	result, err := controller.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, result.ModulesSeen)
	assert.Equal(t, 1, result.LessonsCompleted)
	require.Len(t, result.Modules, 2)
	assert.Equal(t, ModuleFailed, result.Modules[0].State)
	assert.Equal(t, ModuleDone, result.Modules[1].State)
}

func TestTraversalRecordsWrittenOffLessons(t *testing.T) {
	frame := &fakeFrame{
		url:  "https://mcwk.mycourse.cn/course/wx/play",
		kids: map[string][]Element{},
	}
	frame.evalFn = func(string) (any, error) { return false, nil }

	cfg := testConfig()
	cfg.Policy.MaxLessonFailures = 1

	page := &fakePage{
		url: listingURL,
		modules: []*fakeElement{
			newModule("模块", "0/1", true, newLesson("坏课程", false)),
		},
		frames: []Frame{frame},
	}
	controller := newTestController(t, page, cfg)

	result, err := controller.Run(context.Background())

	require.NoError(t, err)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "模块", result.Failures[0].ModuleTitle)
	assert.Equal(t, "坏课程", result.Failures[0].LessonTitle)
	require.Len(t, result.Modules, 1)
	assert.Equal(t, ModuleFailed, result.Modules[0].State)
}

func TestTraversalEmptyListing(t *testing.T) {
	page := &fakePage{url: listingURL}
	controller := newTestController(t, page, testConfig())

	result, err := controller.Run(context.Background())

	require.NoError(t, err)
	assert.Zero(t, result.ModulesSeen)
	assert.Zero(t, result.LessonsCompleted)
	assert.Empty(t, result.Modules)
}

func TestTraversalListingNeverAppears(t *testing.T) {
	page := &fakePage{
		url: listingURL,
		waitSelErr: map[string]error{
			DefaultSelectors().ModuleItem: errors.New("timeout"),
		},
	}
	controller := newTestController(t, page, testConfig())

	result, err := controller.Run(context.Background())

	assert.Error(t, err)
	require.NotNil(t, result)
	assert.Zero(t, result.ModulesSeen)
}

func TestTraversalReturnsPartialResultOnListingDeath(t *testing.T) {
	page := &fakePage{
		url: listingURL,
		modules: []*fakeElement{
			newModule("完成的模块", "1/1", true, newLesson("a", true)),
		},
	}
	controller := newTestController(t, page, testConfig())

	// Kill the listing after construction but before the run: the very
	// first query fails and the partial result still comes back.
	page.queryAllErr = errors.New("page crashed")

	result, err := controller.Run(context.Background())

	assert.Error(t, err)
	require.NotNil(t, result)
	assert.Zero(t, result.ModulesSeen)
}

func TestTraversalHonorsCancellation(t *testing.T) {
	page := &fakePage{
		url:     listingURL,
		modules: []*fakeElement{newModule("模块", "0/1", true, newLesson("a", false))},
	}
	controller := newTestController(t, page, testConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := controller.Run(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, result)
	assert.Zero(t, result.LessonsCompleted)
}
