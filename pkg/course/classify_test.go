package course

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseProgress(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		done  int
		total int
	}{
		{name: "plain", text: "2/3", done: 2, total: 3},
		{name: "double digits", text: "10/12", done: 10, total: 12},
		{name: "surrounding whitespace", text: "  2/3\n", done: 2, total: 3},
		{name: "inner whitespace", text: "2 / 3", done: 2, total: 3},
		{name: "zero of zero", text: "0/0", done: 0, total: 0},
		{name: "empty", text: ""},
		{name: "no separator", text: "3"},
		{name: "non-numeric halves", text: "a/b"},
		{name: "missing total", text: "2/"},
		{name: "free text", text: "loading..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			done, total := ParseProgress(tt.text)
			assert.Equal(t, tt.done, done)
			assert.Equal(t, tt.total, total)
		})
	}
}

func TestNeedsDraining(t *testing.T) {
	assert.True(t, NeedsDraining(0, 5))
	assert.True(t, NeedsDraining(2, 3))
	assert.False(t, NeedsDraining(3, 3))
	assert.False(t, NeedsDraining(0, 0))
	// An over-reported module has nothing left to do either.
	assert.False(t, NeedsDraining(5, 3))
}

func TestIsLessonDone(t *testing.T) {
	c := NewClassifier(DefaultSelectors())

	tests := []struct {
		name  string
		class string
		done  bool
	}{
		{name: "marker among tokens", class: "img-texts-item passed", done: true},
		{name: "marker alone", class: "passed", done: true},
		{name: "marker first", class: "passed img-texts-item", done: true},
		{name: "no marker", class: "img-texts-item", done: false},
		{name: "substring is not a token", class: "img-texts-item passed-icon", done: false},
		{name: "empty class", class: "", done: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.done, c.IsLessonDone(tt.class))
		})
	}
}

func TestLessonKind(t *testing.T) {
	sel := DefaultSelectors()
	c := NewClassifier(sel)

	t.Run("video hint present", func(t *testing.T) {
		frame := &fakeFrame{kids: map[string][]Element{
			sel.VideoHint: {&fakeElement{text: "时长3分钟，" + sel.VideoHintFragment}},
		}}
		assert.Equal(t, KindVideo, c.LessonKind(frame))
	})

	t.Run("hint element without the fragment", func(t *testing.T) {
		frame := &fakeFrame{kids: map[string][]Element{
			sel.VideoHint: {&fakeElement{text: "请认真阅读以下内容"}},
		}}
		assert.Equal(t, KindInteractive, c.LessonKind(frame))
	})

	t.Run("no hint element", func(t *testing.T) {
		frame := &fakeFrame{kids: map[string][]Element{}}
		assert.Equal(t, KindInteractive, c.LessonKind(frame))
	})

	t.Run("fragment in a later hint", func(t *testing.T) {
		frame := &fakeFrame{kids: map[string][]Element{
			sel.VideoHint: {
				&fakeElement{text: "课程介绍"},
				&fakeElement{text: sel.VideoHintFragment},
			},
		}}
		assert.Equal(t, KindVideo, c.LessonKind(frame))
	})
}
