package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/joeydtaylor/steeze-factory/pkg/factory"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func route(t *testing.T, r *factory.Router, raw string) {
	t.Helper()
	m, err := factory.DecodeMessage([]byte(raw))
	if err != nil {
		t.Fatalf("DecodeMessage() error = %v", err)
	}
	r.Route(context.Background(), m)
}

func TestDispatchObserver(t *testing.T) {
	s := factory.NewStore()
	r := factory.NewRouter(s, factory.WithObserver(NewDispatchObserver(s)))

	okOrders := testutil.ToFloat64(messagesTotal.WithLabelValues("dashboard/order", "ok"))
	badOrders := testutil.ToFloat64(messagesTotal.WithLabelValues("dashboard/order", "invalid"))
	unknown := testutil.ToFloat64(messagesTotal.WithLabelValues("unknown", "unknown_topic"))
	white := testutil.ToFloat64(ordersProcessed.WithLabelValues("white"))
	whiteStored := testutil.ToFloat64(itemsStored.WithLabelValues("white"))

	route(t, r, `{"topic":"dashboard/order","payload":{"color":"white","status":"stored"}}`)
	route(t, r, `{"topic":"dashboard/order","payload":{"color":"white","status":"active"}}`)
	route(t, r, `{"topic":"dashboard/order","payload":{"color":"green"}}`)
	route(t, r, `{"topic":"who/knows","payload":{}}`)
	route(t, r, `{"topic":"warehouse/stock","payload":{"location":"a1","piece":"P1"}}`)
	route(t, r, `{"topic":"warehouse/stock","payload":{"location":"a2","piece":""}}`)
	route(t, r, `{"topic":"nfc/reader","payload":{"pieceID":"X"}}`)

	if got := testutil.ToFloat64(messagesTotal.WithLabelValues("dashboard/order", "ok")) - okOrders; got != 2 {
		t.Errorf("ok orders delta = %v, want 2", got)
	}
	if got := testutil.ToFloat64(messagesTotal.WithLabelValues("dashboard/order", "invalid")) - badOrders; got != 1 {
		t.Errorf("invalid orders delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(messagesTotal.WithLabelValues("unknown", "unknown_topic")) - unknown; got != 1 {
		t.Errorf("unknown topic delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(ordersProcessed.WithLabelValues("white")) - white; got != 2 {
		t.Errorf("white orders delta = %v, want 2", got)
	}
	if got := testutil.ToFloat64(itemsStored.WithLabelValues("white")) - whiteStored; got != 1 {
		t.Errorf("white stored delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(stockSlotsFilled); got != 1 {
		t.Errorf("stock slots filled = %v, want 1", got)
	}
	if got := testutil.ToFloat64(nfcLogEntries); got != 1 {
		t.Errorf("nfc log entries = %v, want 1", got)
	}
}

func TestCollect_SkipsMetricsPath(t *testing.T) {
	h := Collect(nil)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	before := testutil.ToFloat64(totalHttpRequestsToUri.WithLabelValues("200", "/metrics", http.MethodGet))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if got := testutil.ToFloat64(totalHttpRequestsToUri.WithLabelValues("200", "/metrics", http.MethodGet)); got != before {
		t.Errorf("/metrics was counted: %v -> %v", before, got)
	}

	before = testutil.ToFloat64(totalHttpRequestsToUri.WithLabelValues("200", "/v1/state/order", http.MethodGet))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/state/order", nil))
	if got := testutil.ToFloat64(totalHttpRequestsToUri.WithLabelValues("200", "/v1/state/order", http.MethodGet)); got != before+1 {
		t.Errorf("request count = %v, want %v", got, before+1)
	}
}
