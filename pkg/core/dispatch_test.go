package core_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/joeydtaylor/steeze-factory/pkg/core"
	"github.com/joeydtaylor/steeze-factory/pkg/factory"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type capturePublisher struct {
	events []core.Event
	err    error
}

func (p *capturePublisher) Publish(_ context.Context, ev core.Event) error {
	p.events = append(p.events, ev)
	return p.err
}

func TestDispatcher_PublishesReplies(t *testing.T) {
	pub := &capturePublisher{}
	d := core.NewDispatcher(factory.NewRouter(factory.NewStore()), pub, nil)

	res, err := d.DispatchBytes(context.Background(), []byte(`{"topic":"warehouse/stock","payload":{"location":"c2","piece":"P5"}}`))
	if err != nil {
		t.Fatalf("DispatchBytes() error = %v", err)
	}
	if res.ID == "" {
		t.Error("Result.ID is empty")
	}
	if res.Topic != factory.TopicWarehouseStock {
		t.Errorf("Result.Topic = %v", res.Topic)
	}
	if len(pub.events) != 1 {
		t.Fatalf("published %d events, want 1", len(pub.events))
	}
	ev := pub.events[0]
	if ev.Topic != "warehouse/stock/response" {
		t.Errorf("event topic = %q", ev.Topic)
	}
	if ev.Headers[core.HeaderMessageID] != res.ID || ev.Headers[core.HeaderOutcome] != "ok" {
		t.Errorf("event headers = %v", ev.Headers)
	}
	var reply struct {
		ID       string `json:"id"`
		Topic    string `json:"topic"`
		Response struct {
			Message string         `json:"message"`
			Stock   map[string]any `json:"stock"`
		} `json:"response"`
	}
	if err := json.Unmarshal(ev.Body, &reply); err != nil {
		t.Fatalf("Unmarshal(reply) error = %v", err)
	}
	if reply.ID != res.ID || reply.Topic != "warehouse/stock" || reply.Response.Stock["c2"] != "P5" {
		t.Errorf("reply = %+v", reply)
	}
}

func TestDispatcher_UnknownTopicIsNotPublished(t *testing.T) {
	pub := &capturePublisher{}
	d := core.NewDispatcher(factory.NewRouter(factory.NewStore()), pub, nil)

	res := d.Dispatch(context.Background(), factory.Message{Topic: "unknown/topic"})
	if res.Response.Status != factory.StatusUnknownTopic {
		t.Errorf("Status = %d, want %d", res.Response.Status, factory.StatusUnknownTopic)
	}
	if len(pub.events) != 0 {
		t.Errorf("published %d events, want 0", len(pub.events))
	}
}

func TestDispatcher_PublishFailureIsLoggedOnly(t *testing.T) {
	zc, logs := observer.New(zapcore.InfoLevel)
	pub := &capturePublisher{err: errors.New("relay down")}
	d := core.NewDispatcher(factory.NewRouter(factory.NewStore()), pub, zap.New(zc))

	res := d.Dispatch(context.Background(), factory.Message{Topic: "factory/status", Payload: factory.NewPayload("up")})
	if res.Response.Message != factory.MsgStatusReceived {
		t.Errorf("Message = %q", res.Response.Message)
	}
	if n := logs.FilterMessage("reply publish failed").Len(); n != 1 {
		t.Errorf("publish failure logs = %d, want 1", n)
	}
}

func TestDispatcher_RejectionsAreWarned(t *testing.T) {
	zc, logs := observer.New(zapcore.InfoLevel)
	d := core.NewDispatcher(factory.NewRouter(factory.NewStore()), nil, zap.New(zc))

	d.Dispatch(context.Background(), factory.Message{Topic: "dashboard/order", Payload: factory.NewPayload(map[string]any{"color": "teal"})})

	entries := logs.FilterMessage("message rejected").All()
	if len(entries) != 1 {
		t.Fatalf("rejected logs = %d, want 1", len(entries))
	}
	if entries[0].Level != zapcore.WarnLevel || entries[0].ContextMap()["error"] != factory.ErrInvalidColor {
		t.Errorf("entry = %+v", entries[0])
	}
}

func TestDispatchBytes_Malformed(t *testing.T) {
	d := core.NewDispatcher(factory.NewRouter(factory.NewStore()), nil, nil)
	if _, err := d.DispatchBytes(context.Background(), []byte(`{"topic":`)); err == nil {
		t.Error("DispatchBytes() error = nil, want error")
	}
}
