// pkg/electrician/receiver.go
package electrician

import (
	"context"
	"crypto/tls"
	"errors"

	"github.com/joeydtaylor/electrician/pkg/builder"
	"github.com/joeydtaylor/steeze-factory/pkg/config"
	"github.com/joeydtaylor/steeze-factory/pkg/core"
	"go.uber.org/zap"
)

var ErrNoTargets = errors.New("electrician: receiver needs relay.targets to forward replies")

// StartReceiver wires ReceivingRelay -> Wire{dispatch} -> ForwardRelay.
// Envelopes arriving on cfg.Address are dispatched and their replies are
// forwarded to cfg.Targets. d should not publish on its own, or every reply
// leaves twice.
func StartReceiver(ctx context.Context, cfg config.Relay, d *core.Dispatcher, log *zap.Logger) (stop func(), err error) {
	o, err := loadOptions(cfg)
	if err != nil {
		return nil, err
	}
	if o.address == "" {
		return nil, errors.New("electrician: receiver address required")
	}
	if len(o.targets) == 0 {
		return nil, ErrNoTargets
	}
	if log == nil {
		log = zap.NewNop()
	}

	logger := builder.NewLogger(builder.LoggerWithDevelopment(true))

	wire := builder.NewWire[[]byte](
		ctx,
		builder.WireWithLogger[[]byte](logger),
		builder.WireWithTransformer[[]byte](ReplyTransform(ctx, d, log)),
	)

	fwd := builder.NewForwardRelay[[]byte](
		ctx,
		builder.ForwardRelayWithLogger[[]byte](logger),
		builder.ForwardRelayWithTarget[[]byte](o.targets...),
		builder.ForwardRelayWithPerformanceOptions[[]byte](builder.NewPerformanceOptions(o.useSnappy, builder.COMPRESS_SNAPPY)),
		builder.ForwardRelayWithSecurityOptions[[]byte](builder.NewSecurityOptions(o.useAESGCM, builder.ENCRYPTION_AES_GCM), o.key()),
		builder.ForwardRelayWithTLSConfig[[]byte](builder.NewTlsClientConfig(
			o.useTLS, o.clientCrt, o.clientKey, o.ca,
			tls.VersionTLS13, tls.VersionTLS13,
		)),
		builder.ForwardRelayWithStaticHeaders[[]byte](o.staticHeaders),
		builder.ForwardRelayWithInput(wire),
	)

	rx := builder.NewReceivingRelay[[]byte](
		ctx,
		builder.ReceivingRelayWithAddress[[]byte](o.address),
		builder.ReceivingRelayWithBufferSize[[]byte](o.bufferSize),
		builder.ReceivingRelayWithLogger[[]byte](logger),
		builder.ReceivingRelayWithOutput(wire),
		builder.ReceivingRelayWithTLSConfig[[]byte](builder.NewTlsServerConfig(
			o.useTLS, o.serverCrt, o.serverKey, o.ca, "",
			tls.VersionTLS13, tls.VersionTLS13,
		)),
		builder.ReceivingRelayWithDecryptionKey[[]byte](o.key()),
	)

	// Start: wire -> forward -> receiver
	if err := wire.Start(ctx); err != nil {
		return nil, err
	}
	if err := fwd.Start(ctx); err != nil {
		return nil, err
	}
	if err := rx.Start(ctx); err != nil {
		return nil, err
	}
	log.Info("relay receiver started", zap.String("address", o.address), zap.Strings("targets", o.targets))

	// Stop in reverse
	return func() {
		rx.Stop()
		fwd.Stop()
		wire.Stop()
	}, nil
}

// ReplyTransform dispatches an envelope and swaps it for the encoded reply.
func ReplyTransform(ctx context.Context, d *core.Dispatcher, log *zap.Logger) func([]byte) ([]byte, error) {
	return func(b []byte) ([]byte, error) {
		res, err := d.DispatchBytes(ctx, b)
		if err != nil {
			log.Warn("relay envelope dropped", zap.Error(err))
			return nil, err
		}
		return core.EncodeReply(res)
	}
}
