package tracing_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"go.opentelemetry.io/otel"

	"github.com/joeydtaylor/steeze-factory/pkg/config"
	"github.com/joeydtaylor/steeze-factory/pkg/tracing"
)

func TestInit_NoEndpoint(t *testing.T) {
	shutdown, err := tracing.Init(context.Background(), config.Default())
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown() error = %v", err)
	}
}

func TestInit_Endpoint(t *testing.T) {
	cfg := config.Default()
	cfg.Tracing.Endpoint = "127.0.0.1:4318"

	shutdown, err := tracing.Init(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = shutdown(ctx)
}

func TestInit_EndpointURLExports(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/traces" {
			hits.Add(1)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.Tracing.Endpoint = srv.URL

	shutdown, err := tracing.Init(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	_, span := otel.Tracer("tracing_test").Start(context.Background(), "one")
	span.End()

	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown() error = %v", err)
	}
	if n := hits.Load(); n == 0 {
		t.Error("collector received no export requests")
	}
}
