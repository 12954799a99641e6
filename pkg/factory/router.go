package factory

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Observer is told about every routed message.
type Observer interface {
	Observe(t Topic, msg Message, resp Response, elapsed time.Duration)
}

// Router dispatches messages to the handler for their topic.
type Router struct {
	store    *Store
	log      *zap.Logger
	observer Observer
	tracer   trace.Tracer
}

type RouterOption func(*Router)

func WithLogger(l *zap.Logger) RouterOption {
	return func(r *Router) {
		if l != nil {
			r.log = l
		}
	}
}

func WithObserver(o Observer) RouterOption {
	return func(r *Router) { r.observer = o }
}

func NewRouter(s *Store, opts ...RouterOption) *Router {
	r := &Router{
		store:  s,
		log:    zap.NewNop(),
		tracer: otel.Tracer("github.com/joeydtaylor/steeze-factory/pkg/factory"),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Store exposes the state the router mutates.
func (r *Router) Store() *Store { return r.store }

// Route handles one message. It never fails; rejections are responses.
func (r *Router) Route(ctx context.Context, msg Message) Response {
	t := ParseTopic(msg.Topic)
	_, span := r.tracer.Start(ctx, "factory.route",
		trace.WithAttributes(attribute.String("factory.topic", msg.Topic)))
	defer span.End()

	start := time.Now()
	resp := r.dispatch(t, msg.Payload)
	elapsed := time.Since(start)

	span.SetAttributes(attribute.String("factory.outcome", string(resp.Outcome())))
	r.log.Debug("message routed",
		zap.String("topic", msg.Topic),
		zap.String("outcome", string(resp.Outcome())),
		zap.Duration("lat", elapsed),
	)
	if r.observer != nil {
		r.observer.Observe(t, msg, resp, elapsed)
	}
	return resp
}

func (r *Router) dispatch(t Topic, p Payload) Response {
	switch t {
	case TopicDashboardOrder:
		return HandleDashboardOrder(r.store, p)
	case TopicFactoryStatus:
		return HandleFactoryStatus(r.store, p)
	case TopicNFCReader:
		return HandleNfcEvent(r.store, p)
	case TopicWarehouseStock:
		return HandleStockUpdate(r.store, p)
	case TopicUnknown:
	}
	return Response{Message: MsgUnknownTopic, Status: StatusUnknownTopic}
}
