// pkg/core/dispatch.go
package core

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/joeydtaylor/steeze-factory/pkg/codec"
	"github.com/joeydtaylor/steeze-factory/pkg/factory"
	"go.uber.org/zap"
)

// Reply is the published form of a routed message.
type Reply struct {
	ID       string           `json:"id"`
	Topic    string           `json:"topic"`
	Response factory.Response `json:"response"`
}

// Result carries the id assigned to a message along with its response.
type Result struct {
	ID       string
	Topic    factory.Topic
	Response factory.Response
}

// Dispatcher is the entry point every transport calls.
type Dispatcher struct {
	router *factory.Router
	pub    Publisher
	log    *zap.Logger
	newID  func() string
}

func NewDispatcher(r *factory.Router, pub Publisher, log *zap.Logger) *Dispatcher {
	if pub == nil {
		pub = NoopPublisher{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{router: r, pub: pub, log: log, newID: uuid.NewString}
}

// Store returns the state behind the router.
func (d *Dispatcher) Store() *factory.Store { return d.router.Store() }

// Dispatch routes msg and publishes the reply for known topics.
func (d *Dispatcher) Dispatch(ctx context.Context, msg factory.Message) Result {
	id := d.newID()
	resp := d.router.Route(ctx, msg)
	res := Result{ID: id, Topic: factory.ParseTopic(msg.Topic), Response: resp}

	fields := []zap.Field{
		zap.String("messageId", id),
		zap.String("topic", msg.Topic),
		zap.String("outcome", string(resp.Outcome())),
	}
	switch resp.Outcome() {
	case factory.OutcomeOK:
		d.log.Info("message handled", fields...)
	case factory.OutcomeInvalid:
		d.log.Warn("message rejected", append(fields, zap.String("error", resp.Error))...)
	default:
		d.log.Warn("unknown topic", fields...)
		return res
	}

	if err := d.publish(ctx, res); err != nil {
		d.log.Error("reply publish failed", append(fields, zap.Error(err))...)
	}
	return res
}

// DispatchBytes decodes an envelope and dispatches it.
func (d *Dispatcher) DispatchBytes(ctx context.Context, b []byte) (Result, error) {
	msg, err := factory.DecodeMessage(b)
	if err != nil {
		return Result{}, fmt.Errorf("decode message: %w", err)
	}
	return d.Dispatch(ctx, msg), nil
}

func (d *Dispatcher) publish(ctx context.Context, res Result) error {
	body, err := EncodeReply(res)
	if err != nil {
		return err
	}
	return d.pub.Publish(ctx, Event{
		Topic: ReplyTopic(res.Topic),
		Body:  body,
		Headers: map[string]string{
			HeaderMessageID: res.ID,
			HeaderTopic:     res.Topic.String(),
			HeaderOutcome:   string(res.Response.Outcome()),
		},
	})
}

// ReplyTopic names the outbound topic for replies to t.
func ReplyTopic(t factory.Topic) string { return t.String() + "/response" }

// EncodeReply renders res as a Reply document.
func EncodeReply(res Result) ([]byte, error) {
	b, err := codec.JSON.Marshal(Reply{ID: res.ID, Topic: res.Topic.String(), Response: res.Response})
	if err != nil {
		return nil, fmt.Errorf("encode reply: %w", err)
	}
	return b, nil
}
