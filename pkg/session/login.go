package session

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// The platform does not keep cookie sessions, so every run starts with a
// human logging in by hand. Detection is heuristic: no single signal is
// reliable, so several are combined.

const loginPollInterval = 2 * time.Second

// Checks web storage for anything that smells like an auth token.
const storageProbeScript = `
() => {
    const direct = !!(
        localStorage.getItem('token') ||
        localStorage.getItem('userInfo') ||
        localStorage.getItem('user') ||
        localStorage.getItem('Authorization') ||
        sessionStorage.getItem('token') ||
        sessionStorage.getItem('userInfo') ||
        sessionStorage.getItem('user') ||
        sessionStorage.getItem('Authorization')
    );
    const keyish = k => k.includes('user') || k.includes('token') || k.includes('auth');
    return direct ||
        Object.keys(localStorage).some(keyish) ||
        Object.keys(sessionStorage).some(keyish);
}
`

const userElementSelector = `.user-info, .user-name, .avatar, [class*="user"], [class*="personal"]`

// WaitForLogin polls the page until the operator has logged in, or until
// the configured timeout runs out.
func (s *Session) WaitForLogin(ctx context.Context) error {
	deadline := time.Now().Add(s.opts.LoginTimeout)
	s.log.Infof("waiting up to %s for manual login", s.opts.LoginTimeout)

	for time.Now().Before(deadline) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if s.loggedIn() {
			s.log.Infof("login detected")
			return nil
		}
		select {
		case <-time.After(loginPollInterval):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return fmt.Errorf("no login detected within %s", s.opts.LoginTimeout)
}

// loggedIn combines the heuristics: a login-ish URL or a visible password
// field means definitely not logged in; otherwise an auth-ish storage key,
// a user-ish page element, or a session-ish cookie counts as logged in.
func (s *Session) loggedIn() bool {
	if looksLikeLoginURL(s.page.URL()) {
		return false
	}

	if pw, err := s.page.QuerySelector(`input[type="password"]`); err == nil && pw != nil {
		return false
	}

	if v, err := s.page.Evaluate(storageProbeScript); err == nil {
		if ok, _ := v.(bool); ok {
			return true
		}
	} else {
		s.log.Debugf("storage probe: %v", err)
	}

	if el, err := s.page.QuerySelector(userElementSelector); err == nil && el != nil {
		return true
	}

	cookies, err := s.context.Cookies()
	if err != nil {
		s.log.Debugf("cookie read: %v", err)
		return false
	}
	for _, c := range cookies {
		if cookieNameLooksAuthy(c.Name) {
			return true
		}
	}
	return false
}

func looksLikeLoginURL(url string) bool {
	return strings.Contains(strings.ToLower(url), "login")
}

func cookieNameLooksAuthy(name string) bool {
	name = strings.ToLower(name)
	return strings.Contains(name, "session") ||
		strings.Contains(name, "token") ||
		strings.Contains(name, "auth")
}
