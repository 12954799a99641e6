package kafka

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/joeydtaylor/steeze-factory/pkg/config"
	"github.com/joeydtaylor/steeze-factory/pkg/core"
	"github.com/joeydtaylor/steeze-factory/pkg/factory"
	"github.com/twmb/franz-go/pkg/kgo"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

func newTestConsumer(replyTopic string) (*Consumer, *factory.Store) {
	store := factory.NewStore()
	d := core.NewDispatcher(factory.NewRouter(store), nil, nil)
	return &Consumer{d: d, replyTopic: replyTopic, log: zap.NewNop()}, store
}

func header(rec *kgo.Record, key string) string {
	for _, h := range rec.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func TestTopicFromKafka(t *testing.T) {
	tests := map[string]string{
		"dashboard.order": "dashboard/order",
		"nfc.reader":      "nfc/reader",
		"factory/status":  "factory/status",
		"plain":           "plain",
	}
	for in, want := range tests {
		if got := TopicFromKafka(in); got != want {
			t.Errorf("TopicFromKafka(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestHandleRecord_Reply(t *testing.T) {
	c, store := newTestConsumer("factory.replies")

	reply, err := c.handleRecord(context.Background(), &kgo.Record{
		Topic: "dashboard.order",
		Value: []byte(`{"topic":"dashboard/order","payload":{"color":"blue","status":"queued"}}`),
	})
	if err != nil {
		t.Fatalf("handleRecord() error = %v", err)
	}
	if reply == nil {
		t.Fatal("handleRecord() reply = nil")
	}
	if reply.Topic != "factory.replies" {
		t.Errorf("reply.Topic = %q", reply.Topic)
	}
	id := header(reply, HeaderMessageID)
	if id == "" || string(reply.Key) != id {
		t.Errorf("reply key %q, id header %q", reply.Key, id)
	}
	if got := header(reply, HeaderTopic); got != "dashboard/order" {
		t.Errorf("topic header = %q", got)
	}

	var body core.Reply
	if err := json.Unmarshal(reply.Value, &body); err != nil {
		t.Fatalf("Unmarshal(reply) error = %v", err)
	}
	if body.ID != id || body.Response.Message != factory.MsgOrderUpdated {
		t.Errorf("reply body = %+v", body)
	}
	if o := store.Order(); o.Color == nil || *o.Color != factory.ColorBlue {
		t.Errorf("Order().Color = %v, want blue", o.Color)
	}
}

func TestHandleRecord_TopicFallback(t *testing.T) {
	c, store := newTestConsumer("")

	reply, err := c.handleRecord(context.Background(), &kgo.Record{
		Topic: "warehouse.stock",
		Value: []byte(`{"payload":{"location":"b3","piece":"P9"}}`),
	})
	if err != nil {
		t.Fatalf("handleRecord() error = %v", err)
	}
	if reply != nil {
		t.Errorf("reply = %+v, want nil without reply topic", reply)
	}
	if got := store.Stock()["b3"]; got != "P9" {
		t.Errorf("Stock()[b3] = %v, want P9", got)
	}
}

func TestHandleRecord_Malformed(t *testing.T) {
	c, store := newTestConsumer("factory.replies")

	if _, err := c.handleRecord(context.Background(), &kgo.Record{Topic: "nfc.reader", Value: []byte(`{`)}); err == nil {
		t.Fatal("handleRecord() error = nil, want error")
	}
	if n := len(store.NfcLog()); n != 0 {
		t.Errorf("len(NfcLog()) = %d, want 0", n)
	}
}

func TestHandleRecord_ReplyCarriesConsumeSpan(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	c, _ := newTestConsumer("factory.replies")
	const (
		traceID = "4bf92f3577b34da6a3ce929d0e0e4736"
		spanID  = "00f067aa0ba902b7"
	)

	reply, err := c.handleRecord(context.Background(), &kgo.Record{
		Topic:   "factory.status",
		Value:   []byte(`{"topic":"factory/status","payload":"up"}`),
		Headers: []kgo.RecordHeader{{Key: "traceparent", Value: []byte("00-" + traceID + "-" + spanID + "-01")}},
	})
	if err != nil {
		t.Fatalf("handleRecord() error = %v", err)
	}
	parts := strings.Split(header(reply, "traceparent"), "-")
	if len(parts) != 4 {
		t.Fatalf("traceparent = %q", header(reply, "traceparent"))
	}
	if parts[1] != traceID {
		t.Errorf("trace id = %s, want %s", parts[1], traceID)
	}
	if parts[2] == spanID {
		t.Error("reply span id equals the inbound parent; want the consume span")
	}
}

func TestNewConsumer_RequiresBrokers(t *testing.T) {
	if _, err := NewConsumer(config.Kafka{}, nil, nil); err == nil {
		t.Error("NewConsumer() error = nil, want error")
	}
}
