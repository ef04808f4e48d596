package http

import (
	"net/http"
	"strings"
	"time"
)

// SessionCookieName is the cookie that carries the signed session token.
const SessionCookieName = "token"

// SessionTransport moves the session token between server and client. The
// primary channel is an HttpOnly cookie scoped to the API prefix; an
// Authorization bearer header is accepted as a fallback for non-browser
// clients. The transport carries tokens only, it never inspects them.
type SessionTransport struct {
	cookieValidity time.Duration
	secure         bool
}

func NewSessionTransport(cookieValidity time.Duration, secure bool) *SessionTransport {
	return &SessionTransport{cookieValidity: cookieValidity, secure: secure}
}

// cookie builds the session cookie with the shared attribute set. Attach and
// Clear must agree on every attribute except MaxAge, otherwise the clearing
// cookie does not match and the original survives in the browser.
func (t *SessionTransport) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    value,
		Path:     "/api",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   t.secure,
		SameSite: http.SameSiteStrictMode,
	}
}

// Attach sets the session cookie on the response.
func (t *SessionTransport) Attach(w http.ResponseWriter, token string) {
	http.SetCookie(w, t.cookie(token, int(t.cookieValidity.Seconds())))
}

// Clear expires the session cookie. The token itself stays valid until exp;
// only the client-side copy is dropped.
func (t *SessionTransport) Clear(w http.ResponseWriter) {
	http.SetCookie(w, t.cookie("", -1))
}

// Extract returns the token from the request, preferring the cookie and
// falling back to a bearer Authorization header. An empty result means the
// request is anonymous; that is not an error at this layer.
func (t *SessionTransport) Extract(r *http.Request) string {
	if c, err := r.Cookie(SessionCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	return extractBearerToken(r.Header.Get("Authorization"))
}

func extractBearerToken(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if !strings.HasPrefix(strings.ToLower(value), "bearer ") {
		return ""
	}
	return strings.TrimSpace(value[len("bearer "):])
}
