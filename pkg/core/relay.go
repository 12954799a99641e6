// pkg/core/relay.go
package core

import "context"

// Event is a byte-level outbound message.
type Event struct {
	Topic   string
	Body    []byte
	Headers map[string]string
}

// Publisher fans routed responses out to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }

const (
	HeaderMessageID = "X-Message-Id"
	HeaderTopic     = "X-Factory-Topic"
	HeaderOutcome   = "X-Factory-Outcome"
)
