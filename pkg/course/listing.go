package course

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// The helpers here re-read the live listing on every call. Module and
// lesson identity is positional: the platform assigns no stable IDs, and
// the listing DOM is rebuilt after expand/collapse, navigation and
// completion. A handle fetched before any of those is garbage afterwards.

// moduleAt re-queries the module listing and returns the element at pos.
func moduleAt(page Page, sel Selectors, pos int) (Element, error) {
	modules, err := page.QuerySelectorAll(sel.ModuleItem)
	if err != nil {
		return nil, fmt.Errorf("module listing query: %w", err)
	}
	if pos < 0 || pos >= len(modules) {
		return nil, fmt.Errorf("module %d of %d: %w", pos, len(modules), ErrStructuralMismatch)
	}
	return modules[pos], nil
}

// childText reads the text of the first child matching selector, or ""
// when absent. Listing text is cosmetic; its absence is never an error.
func childText(parent Element, selector string) string {
	child, err := parent.QuerySelector(selector)
	if err != nil || child == nil {
		return ""
	}
	text, err := child.TextContent()
	if err != nil {
		return ""
	}
	return text
}

// hasClassToken reports whether the element's class attribute contains
// the given token.
func hasClassToken(el Element, token string) bool {
	class, err := el.GetAttribute("class")
	if err != nil {
		return false
	}
	for _, tok := range strings.Fields(class) {
		if tok == token {
			return true
		}
	}
	return false
}

// sleep blocks for d or until the context is done. Zero and negative
// durations return immediately, which is what the tests rely on.
func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
