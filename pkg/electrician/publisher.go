// pkg/electrician/publisher.go
package electrician

// Publish-only relay built from Electrician builder primitives.
// No builder.* types are stored on the struct.

import (
	"context"
	"crypto/tls"
	"fmt"

	"github.com/joeydtaylor/electrician/pkg/builder"
	"github.com/joeydtaylor/steeze-factory/pkg/config"
	"github.com/joeydtaylor/steeze-factory/pkg/core"
	"go.uber.org/zap"
)

type Publisher struct {
	submit func(context.Context, []byte) error
	stop   func()
}

// NewPublisher returns a forward relay of reply bytes to cfg.Targets, or a
// core.NoopPublisher when no targets are configured.
func NewPublisher(ctx context.Context, cfg config.Relay, log *zap.Logger) (core.Publisher, func(), error) {
	o, err := loadOptions(cfg)
	if err != nil {
		return nil, nil, err
	}
	if len(o.targets) == 0 {
		return core.NoopPublisher{}, func() {}, nil
	}

	logger := builder.NewLogger(builder.LoggerWithDevelopment(true))
	wire := builder.NewWire[[]byte](ctx, builder.WireWithLogger[[]byte](logger))

	relay := builder.NewForwardRelay[[]byte](
		ctx,
		builder.ForwardRelayWithLogger[[]byte](logger),
		builder.ForwardRelayWithTarget[[]byte](o.targets...),
		builder.ForwardRelayWithPerformanceOptions[[]byte](builder.NewPerformanceOptions(o.useSnappy, builder.COMPRESS_SNAPPY)),
		builder.ForwardRelayWithSecurityOptions[[]byte](builder.NewSecurityOptions(o.useAESGCM, builder.ENCRYPTION_AES_GCM), o.key()),
		builder.ForwardRelayWithTLSConfig[[]byte](builder.NewTlsClientConfig(
			o.useTLS,
			o.clientCrt, o.clientKey, o.ca,
			tls.VersionTLS13, tls.VersionTLS13,
		)),
		builder.ForwardRelayWithStaticHeaders[[]byte](o.staticHeaders),
		builder.ForwardRelayWithInput(wire),
	)

	if err := wire.Start(ctx); err != nil {
		return nil, nil, fmt.Errorf("relay wire start: %w", err)
	}
	if err := relay.Start(ctx); err != nil {
		return nil, nil, fmt.Errorf("relay forward start: %w", err)
	}
	if log != nil {
		log.Info("relay publisher started", zap.Strings("targets", o.targets))
	}

	p := &Publisher{
		submit: func(ctx context.Context, b []byte) error { return wire.Submit(ctx, b) },
		stop: func() {
			relay.Stop()
			wire.Stop()
		},
	}
	return p, p.Stop, nil
}

// Publish submits the reply body. The reply document carries its own topic;
// per-event headers do not ride the relay.
func (p *Publisher) Publish(ctx context.Context, ev core.Event) error {
	if ev.Topic == "" {
		return fmt.Errorf("relay: missing topic")
	}
	return p.submit(ctx, ev.Body)
}

func (p *Publisher) Stop() { p.stop() }
