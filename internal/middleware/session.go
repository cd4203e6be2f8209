package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"trexxdash/internal/artifacts"
)

// SessionConfig names where the browser session ID travels
type SessionConfig struct {
	CookieName string
	Header     string
	TTL        time.Duration
	Secure     bool
}

// Session attaches the browser session ID to the request context so the
// artifact provider can pick the session's cache. The header wins over the
// cookie; a request carrying neither gets a fresh ID and a cookie.
func Session(cfg SessionConfig) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := sessionID(r, cfg)
			if id == "" {
				id = uuid.New().String()
				cookie := &http.Cookie{
					Name:     cfg.CookieName,
					Value:    id,
					Path:     "/",
					HttpOnly: true,
					Secure:   cfg.Secure,
					SameSite: http.SameSiteLaxMode,
				}
				if cfg.TTL > 0 {
					cookie.MaxAge = int(cfg.TTL.Seconds())
				}
				http.SetCookie(w, cookie)
			}

			w.Header().Set(cfg.Header, id)
			next.ServeHTTP(w, r.WithContext(artifacts.WithSession(r.Context(), id)))
		})
	}
}

func sessionID(r *http.Request, cfg SessionConfig) string {
	if id := r.Header.Get(cfg.Header); validSessionID(id) {
		return id
	}
	if c, err := r.Cookie(cfg.CookieName); err == nil && validSessionID(c.Value) {
		return c.Value
	}
	return ""
}

// validSessionID accepts only UUIDs so clients cannot mint unbounded keys
// of arbitrary shape.
func validSessionID(id string) bool {
	if id == "" {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}
