package session

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/playwright-community/playwright-go"
)

// State is the debugging dump written by SaveState. Nothing in the tool
// reads it back — the platform does not restore sessions from cookies —
// but having the capture around makes selector archaeology much easier.
type State struct {
	Cookies []playwright.Cookie `json:"cookies"`
	Storage any                 `json:"storage"`
	URL     string              `json:"url"`
}

const storageDumpScript = `
() => ({
    localStorage: {...localStorage},
    sessionStorage: {...sessionStorage}
})
`

// SaveState writes cookies, web storage and the current URL to path.
func (s *Session) SaveState(path string) error {
	cookies, err := s.context.Cookies()
	if err != nil {
		return fmt.Errorf("reading cookies: %w", err)
	}

	storage, err := s.page.Evaluate(storageDumpScript)
	if err != nil {
		s.log.Warnf("storage dump: %v", err)
	}

	state := State{
		Cookies: cookies,
		Storage: storage,
		URL:     s.page.URL(),
	}
	raw, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}
	if err := os.WriteFile(path, raw, 0600); err != nil {
		return fmt.Errorf("writing state: %w", err)
	}
	s.log.Infof("browser state saved to %s", path)
	return nil
}

// Screenshot captures the full page as a PNG at path.
func (s *Session) Screenshot(path string) error {
	_, err := s.page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("capturing screenshot: %w", err)
	}
	s.log.Infof("screenshot saved to %s", path)
	return nil
}
