package course

import (
	"strconv"
	"strings"
)

// ParseProgress parses a module's "done/total" indicator text. A string
// without the separator, or with non-numeric halves, yields (0, 0) — the
// indicator renders transiently empty during list refreshes and that must
// not abort the walk.
func ParseProgress(text string) (done, total int) {
	left, right, ok := strings.Cut(strings.TrimSpace(text), "/")
	if !ok {
		return 0, 0
	}
	d, err := strconv.Atoi(strings.TrimSpace(left))
	if err != nil {
		return 0, 0
	}
	t, err := strconv.Atoi(strings.TrimSpace(right))
	if err != nil {
		return 0, 0
	}
	return d, t
}

// NeedsDraining reports whether a module still has lessons to complete.
// A module with total == 0 has nothing to do; it is skipped, not failed.
func NeedsDraining(done, total int) bool {
	return total > 0 && done < total
}

// Classifier holds the pure classification rules: progress parsing, the
// completed-lesson marker, and the video-versus-interactive distinction.
type Classifier struct {
	doneMarker   string
	hintSelector string
	hintFragment string
}

// NewClassifier builds a classifier from the platform selector set.
func NewClassifier(sel Selectors) *Classifier {
	return &Classifier{
		doneMarker:   sel.DoneMarker,
		hintSelector: sel.VideoHint,
		hintFragment: sel.VideoHintFragment,
	}
}

// IsLessonDone reports whether the done marker is present among the class
// tokens of a lesson element. Token equality, not substring: the platform
// also ships classes like "passed-icon" that do not mean completed.
func (c *Classifier) IsLessonDone(classAttr string) bool {
	for _, tok := range strings.Fields(classAttr) {
		if tok == c.doneMarker {
			return true
		}
	}
	return false
}

// LessonKind inspects the resolved content frame for the short-video hint
// text. Anything without the hint is treated as interactive — the safe
// default, since an unnecessary trigger search is harmless while a missed
// trigger click loses the lesson.
func (c *Classifier) LessonKind(frame Frame) Kind {
	hints, err := frame.QuerySelectorAll(c.hintSelector)
	if err != nil {
		return KindInteractive
	}
	for _, hint := range hints {
		text, err := hint.TextContent()
		if err != nil {
			continue
		}
		if strings.Contains(text, c.hintFragment) {
			return KindVideo
		}
	}
	return KindInteractive
}
