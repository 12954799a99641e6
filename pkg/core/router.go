// pkg/core/router.go
package core

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimd "github.com/go-chi/chi/v5/middleware"
	"github.com/joeydtaylor/steeze-factory/pkg/config"
	"github.com/joeydtaylor/steeze-factory/pkg/middleware/auth"
	"github.com/joeydtaylor/steeze-factory/pkg/middleware/logger"
	hmetrics "github.com/joeydtaylor/steeze-factory/pkg/middleware/metrics"
	httpx "github.com/joeydtaylor/steeze-factory/pkg/transport/httpx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type BuildDeps struct {
	Auth       *auth.Middleware
	LogMW      *logger.Middleware
	Metrics    http.Handler
	Router     httpx.Router
	Dispatcher *Dispatcher
}

// BuildRouter mounts the ingest, state and ops endpoints.
func BuildRouter(cfg config.Config, d BuildDeps) http.Handler {
	r := d.Router
	r.Use(chimd.RequestID, chimd.Recoverer, chimd.Heartbeat("/ping"))

	if d.Auth != nil {
		r.Use(d.Auth.Middleware())
		if d.LogMW != nil {
			r.Use(d.LogMW.Middleware(d.Auth))
		}
		// metrics collector that references auth state without copying it
		hmetrics.SetPathNormalizer(routePattern)
		r.Use(hmetrics.Collect(d.Auth))
	} else if d.LogMW != nil {
		r.Use(d.LogMW.Middleware(nil))
	}

	if d.Metrics != nil {
		r.Get("/metrics", d.Metrics)
	}

	guard := func(h http.HandlerFunc) http.HandlerFunc {
		if cfg.HTTP.TimeoutMS > 0 {
			h = withTimeout(h, time.Duration(cfg.HTTP.TimeoutMS)*time.Millisecond)
		}
		return withGuard(h, d.Auth, cfg.Auth.RequireAuth)
	}

	r.Post("/v1/messages", guard(handleEnvelope(d.Dispatcher)))
	r.Post("/v1/topics/{group}/{name}", guard(handleTopic(d.Dispatcher)))
	r.Get("/v1/state/order", guard(handleOrderState(d.Dispatcher)))
	r.Get("/v1/state/stock", guard(handleStockState(d.Dispatcher)))
	r.Get("/v1/state/nfc", guard(handleNfcState(d.Dispatcher)))

	return otelhttp.NewHandler(r.Mux(), "factory-http")
}

// routePattern labels request metrics by matched route, not raw path.
func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}

func withTimeout(next http.HandlerFunc, d time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), d)
		defer cancel()
		next(w, r.WithContext(ctx))
	}
}

func withGuard(next http.HandlerFunc, a *auth.Middleware, requireAuth bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireAuth {
			next(w, r)
			return
		}
		if a == nil || !a.IsAuthenticated(r.Context()) {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}
