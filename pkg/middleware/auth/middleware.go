package auth

import (
	"context"
	"net/http"
	"strings"
	"time"
)

type contextKey struct{ name string }

var userCtxKey = &contextKey{"user"}

// Middleware authenticates bearer tokens issued to factory devices and dashboards.
type Middleware struct {
	secret    []byte
	issuer    string
	audience  string
	adminRole string
	devBypass bool
	leeway    time.Duration
}

func (m *Middleware) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Dev bypass for local testing (NEVER enable in prod)
			if m.devBypass {
				if u := devUserFromHeaders(r); u.Username != "" {
					next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
					return
				}
			}

			raw, ok := bearerToken(r)
			if !ok || len(m.secret) == 0 {
				// No credentials or no key; continue unauthenticated and let guards decide.
				next.ServeHTTP(w, r)
				return
			}
			u, err := m.validateBearer(raw)
			if err != nil {
				// fall through on error; route guards decide whether to 401
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
		})
	}
}

// WithUser attaches an authenticated user to ctx.
func WithUser(ctx context.Context, u User) context.Context {
	return context.WithValue(ctx, userCtxKey, u)
}

func bearerToken(r *http.Request) (string, bool) {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(h) < 7 || !strings.EqualFold(h[:7], "Bearer ") {
		return "", false
	}
	tok := strings.TrimSpace(h[7:])
	return tok, tok != ""
}
