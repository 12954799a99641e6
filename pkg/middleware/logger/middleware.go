package logger

import (
	"bytes"
	"io"
	"net/http"
	"time"

	chimd "github.com/go-chi/chi/v5/middleware"
	"github.com/joeydtaylor/steeze-factory/pkg/middleware/auth"
	"go.uber.org/zap"
)

// Middleware writes one access log line per HTTP request.
type Middleware struct {
	log *zap.Logger
}

func NewMiddleware(l *zap.Logger) *Middleware {
	if l == nil {
		l = zap.NewNop()
	}
	return &Middleware{log: l}
}

func (m *Middleware) Middleware(ca *auth.Middleware) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimd.NewWrapResponseWriter(w, r.ProtoMajor)

			// Read and restore the body so handlers can still consume it
			var body []byte
			if r.Body != nil {
				if b, err := io.ReadAll(r.Body); err == nil {
					body = b
				}
				r.Body.Close()
				r.Body = io.NopCloser(bytes.NewReader(body))
			}

			scheme := "http"
			if r.TLS != nil {
				scheme = "https"
			}

			start := time.Now()
			defer func() {
				lat := time.Since(start)

				isAuth := false
				username := ""
				role := ""
				provider := ""
				if ca != nil {
					isAuth = ca.IsAuthenticated(r.Context())
					u := ca.GetUser(r.Context())
					username = u.Username
					role = u.Role.Name
					provider = u.AuthenticationSource.Provider
				}

				log := m.log.With(
					zap.String("dateTime", start.UTC().Format(time.RFC1123)),
					zap.String("requestId", chimd.GetReqID(r.Context())),
					zap.String("httpScheme", scheme),
					zap.Bool("isAuthenticated", isAuth),
					zap.String("username", username),
					zap.String("role", role),
					zap.String("authenticationProvider", provider),
					zap.String("httpProto", r.Proto),
					zap.String("httpMethod", r.Method),
					zap.String("remoteAddr", r.RemoteAddr),
					zap.String("uri", r.URL.Path),
					zap.Duration("lat", lat),
					zap.Int("responseSize", ww.BytesWritten()),
					zap.Int("status", ww.Status()),
				)

				// Redact by default; allowlisted small JSON bodies only.
				if shouldLogBody(r, body) {
					log.Info("", zap.ByteString("requestData", body))
				} else {
					log.Info("")
				}
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
