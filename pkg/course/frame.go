package course

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

// FrameResolver picks the embedded document that hosts real lesson content
// out of the page's current frame set. The hosting page attaches
// placeholder frames before the content frame arrives, so the resolver
// ranks candidates by specificity instead of trusting position:
//
//  1. drop blank, about:blank and javascript: pseudo frames
//  2. prefer a frame on the content-hosting domain
//  3. else prefer a non-platform frame whose path contains "course"
//  4. else take the first frame that is not the main document
//
// First match wins; the same frame list always resolves to the same frame.
type FrameResolver struct {
	contentDomain  glob.Glob
	platformDomain string
}

// NewFrameResolver compiles the content-domain pattern for a platform.
func NewFrameResolver(p Platform) (*FrameResolver, error) {
	g, err := glob.Compile(p.ContentDomainPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid content domain pattern %q: %w", p.ContentDomainPattern, err)
	}
	return &FrameResolver{
		contentDomain:  g,
		platformDomain: p.Domain,
	}, nil
}

// Resolve returns the best content-frame candidate, or (nil, false) when
// none qualifies. Callers falling back to the main document on a false
// return should log the degraded condition — content selectors will very
// likely miss there.
func (r *FrameResolver) Resolve(frames []Frame, pageURL string) (Frame, bool) {
	var live []Frame
	for _, f := range frames {
		u := f.URL()
		if u == "" || u == "about:blank" || strings.Contains(u, "javascript:") {
			continue
		}
		live = append(live, f)
	}

	for _, f := range live {
		if r.contentDomain.Match(f.URL()) {
			return f, true
		}
	}

	for _, f := range live {
		u := f.URL()
		if u == pageURL {
			continue
		}
		if r.platformDomain != "" && strings.Contains(u, r.platformDomain) {
			continue
		}
		if strings.Contains(strings.ToLower(u), "/course/") {
			return f, true
		}
	}

	for _, f := range live {
		if !f.IsMain() && f.URL() != pageURL {
			return f, true
		}
	}

	return nil, false
}
