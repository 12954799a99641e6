// pkg/transport/kafka/consumer.go
package kafka

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/joeydtaylor/steeze-factory/pkg/config"
	"github.com/joeydtaylor/steeze-factory/pkg/core"
	"github.com/joeydtaylor/steeze-factory/pkg/factory"
	"github.com/twmb/franz-go/pkg/kgo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Reply record header keys.
const (
	HeaderMessageID = "x-message-id"
	HeaderTopic     = "x-factory-topic"
)

const tracerName = "github.com/joeydtaylor/steeze-factory/pkg/transport/kafka"

// Consumer feeds envelopes from a consumer group into the dispatcher and
// produces replies when a reply topic is configured.
type Consumer struct {
	client     *kgo.Client
	d          *core.Dispatcher
	replyTopic string
	log        *zap.Logger
}

func NewConsumer(cfg config.Kafka, d *core.Dispatcher, log *zap.Logger) (*Consumer, error) {
	if !cfg.Enabled() {
		return nil, errors.New("kafka: brokers and topics required")
	}
	if log == nil {
		log = zap.NewNop()
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ConsumerGroup(cfg.Group),
		kgo.ConsumeTopics(cfg.Topics...),
		kgo.ClientID(cfg.ClientID),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka client: %w", err)
	}
	return &Consumer{client: client, d: d, replyTopic: cfg.ReplyTopic, log: log.Named("kafka")}, nil
}

// Run polls until ctx is cancelled or the client is closed.
func (c *Consumer) Run(ctx context.Context) {
	c.log.Info("consumer started", zap.String("replyTopic", c.replyTopic))
	for {
		fetches := c.client.PollFetches(ctx)
		if fetches.IsClientClosed() || ctx.Err() != nil {
			c.log.Info("consumer stopped")
			return
		}
		fetches.EachError(func(topic string, partition int32, err error) {
			c.log.Warn("fetch error", zap.String("topic", topic), zap.Int32("partition", partition), zap.Error(err))
		})

		iter := fetches.RecordIter()
		for !iter.Done() {
			rec := iter.Next()
			reply, err := c.handleRecord(ctx, rec)
			if err != nil {
				c.log.Warn("record skipped",
					zap.String("topic", rec.Topic),
					zap.Int64("offset", rec.Offset),
					zap.Error(err))
				continue
			}
			if reply == nil {
				continue
			}
			c.client.Produce(ctx, reply, func(r *kgo.Record, err error) {
				if err != nil {
					c.log.Error("reply produce failed", zap.String("key", string(r.Key)), zap.Error(err))
				}
			})
		}
	}
}

func (c *Consumer) Close() { c.client.Close() }

// handleRecord dispatches one record. It returns the reply to produce, or nil
// when no reply topic is configured.
func (c *Consumer) handleRecord(ctx context.Context, rec *kgo.Record) (*kgo.Record, error) {
	msg, err := factory.DecodeMessage(rec.Value)
	if err != nil {
		return nil, err
	}
	if msg.Topic == "" {
		msg.Topic = TopicFromKafka(rec.Topic)
	}

	ctx, span := otel.Tracer(tracerName).Start(extractTrace(ctx, rec.Headers), "kafka.consume",
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.source.name", rec.Topic),
		))
	defer span.End()

	res := c.d.Dispatch(ctx, msg)
	if c.replyTopic == "" {
		return nil, nil
	}

	body, err := core.EncodeReply(res)
	if err != nil {
		return nil, err
	}
	headers := []kgo.RecordHeader{
		{Key: HeaderMessageID, Value: []byte(res.ID)},
		{Key: HeaderTopic, Value: []byte(msg.Topic)},
	}
	return &kgo.Record{
		Topic:   c.replyTopic,
		Key:     []byte(res.ID),
		Value:   body,
		Headers: append(headers, injectTrace(ctx)...),
	}, nil
}

// TopicFromKafka maps a Kafka topic name to a factory topic: dashboard.order -> dashboard/order.
func TopicFromKafka(name string) string {
	return strings.ReplaceAll(name, ".", "/")
}

func extractTrace(ctx context.Context, headers []kgo.RecordHeader) context.Context {
	carrier := propagation.MapCarrier{}
	for _, h := range headers {
		if h.Key == "traceparent" || h.Key == "tracestate" {
			carrier[h.Key] = string(h.Value)
		}
	}
	if carrier["traceparent"] == "" {
		return ctx
	}
	return propagation.TraceContext{}.Extract(ctx, carrier)
}

func injectTrace(ctx context.Context) []kgo.RecordHeader {
	carrier := propagation.MapCarrier{}
	propagation.TraceContext{}.Inject(ctx, carrier)
	tp, ok := carrier["traceparent"]
	if !ok {
		return nil
	}
	return []kgo.RecordHeader{{Key: "traceparent", Value: []byte(tp)}}
}
