package relay

import (
	"net/http"
	"strings"
	"sync"
)

// Cookie is a captured name/value pair
type Cookie struct {
	Name  string
	Value string
}

// Session is the authentication state owned by one Client. It is created
// empty, filled by a successful login and cleared by Logout or Close.
type Session struct {
	mu            sync.RWMutex
	authenticated bool
	cookies       []Cookie
}

// Authenticated reports whether a login has succeeded
func (s *Session) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

// Cookies returns a copy of the captured cookies in capture order
func (s *Session) Cookies() []Cookie {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Cookie, len(s.cookies))
	copy(out, s.cookies)
	return out
}

// CookieHeader renders the captured cookies as a Cookie header value,
// skipping names in exclude.
func (s *Session) CookieHeader(exclude map[string]bool) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	parts := make([]string, 0, len(s.cookies))
	for _, c := range s.cookies {
		if exclude[c.Name] {
			continue
		}
		parts = append(parts, c.Name+"="+c.Value)
	}
	return strings.Join(parts, "; ")
}

// establish marks the session authenticated with the given cookies. A
// repeated name keeps its first position and takes the latest value.
func (s *Session) establish(cookies []*http.Cookie) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cookies = s.cookies[:0]
	position := make(map[string]int, len(cookies))
	for _, c := range cookies {
		if i, seen := position[c.Name]; seen {
			s.cookies[i].Value = c.Value
			continue
		}
		position[c.Name] = len(s.cookies)
		s.cookies = append(s.cookies, Cookie{Name: c.Name, Value: c.Value})
	}
	s.authenticated = true
}

// clear drops all session state
func (s *Session) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authenticated = false
	s.cookies = nil
}
