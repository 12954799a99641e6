package serverfx

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/joeydtaylor/steeze-factory/pkg/bundlefx"
	"github.com/joeydtaylor/steeze-factory/pkg/config"
	"github.com/joeydtaylor/steeze-factory/pkg/core"
	"github.com/joeydtaylor/steeze-factory/pkg/electrician"
	"github.com/joeydtaylor/steeze-factory/pkg/factory"
	"github.com/joeydtaylor/steeze-factory/pkg/middleware/auth"
	"github.com/joeydtaylor/steeze-factory/pkg/middleware/logger"
	"github.com/joeydtaylor/steeze-factory/pkg/middleware/metrics"
	"github.com/joeydtaylor/steeze-factory/pkg/tracing"
	"github.com/joeydtaylor/steeze-factory/pkg/transport/httpx"
	"github.com/joeydtaylor/steeze-factory/pkg/transport/kafka"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ---------- Options ----------

type Options struct {
	ConfigEnv     string // e.g. FACTORY_CONFIG
	DefaultConfig string // e.g. factory.toml
}

type Option func(*Options)

func WithConfigEnv(k string) Option        { return func(o *Options) { o.ConfigEnv = k } }
func WithDefaultConfig(path string) Option { return func(o *Options) { o.DefaultConfig = path } }

func defaultOptions() Options {
	return Options{
		ConfigEnv:     "FACTORY_CONFIG",
		DefaultConfig: "factory.toml",
	}
}

// Module returns the complete Fx option set for the factory router.
func Module(opts ...Option) fx.Option {
	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	return fx.Options(
		fx.Provide(func() Options { return o }),
		fx.Provide(provideConfig),
		// Middleware: auth, loggers, metrics
		bundlefx.Module,
		// Domain
		fx.Provide(provideStore),
		fx.Provide(provideRouter),
		fx.Provide(providePublisher),
		fx.Provide(provideDispatcher),
		// HTTP
		fx.Provide(httpx.NewChi),
		fx.Provide(fx.Annotate(
			provideHandler,
			fx.ParamTags(``, ``, ``, `name:"metrics"`, ``, ``), // cfg,a,lm,m,r,d
			fx.ResultTags(`name:"app"`),
		)),
		// Lifecycle
		fx.Invoke(registerTracing),
		fx.Invoke(registerKafka),
		fx.Invoke(registerRelayReceiver),
		fx.Invoke(registerServer),
	)
}

// ---------- Providers ----------

func provideConfig(o Options) (config.Config, error) {
	return config.Load(envOr(o.ConfigEnv, o.DefaultConfig))
}

func provideStore(cfg config.Config) *factory.Store {
	return factory.NewStore(factory.WithNfcLogLimit(cfg.Store.NfcLogLimit))
}

func provideRouter(s *factory.Store, zl *zap.Logger, obs *metrics.DispatchObserver) *factory.Router {
	return factory.NewRouter(s, factory.WithLogger(zl.Named("router")), factory.WithObserver(obs))
}

func providePublisher(lc fx.Lifecycle, cfg config.Config, zl *zap.Logger) (core.Publisher, error) {
	pub, stop, err := electrician.NewPublisher(context.Background(), cfg.Relay, zl)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{OnStop: func(context.Context) error { stop(); return nil }})
	return pub, nil
}

func provideDispatcher(r *factory.Router, pub core.Publisher, zl *zap.Logger) *core.Dispatcher {
	return core.NewDispatcher(r, pub, zl)
}

func provideHandler(
	cfg config.Config,
	a *auth.Middleware,
	lm *logger.Middleware,
	/* name:"metrics" */ m http.Handler,
	r httpx.Router,
	d *core.Dispatcher,
) http.Handler {
	return core.BuildRouter(cfg, core.BuildDeps{
		Auth:       a,
		LogMW:      lm,
		Metrics:    m,
		Router:     r,
		Dispatcher: d,
	})
}

// ---------- Lifecycle ----------

func registerTracing(lc fx.Lifecycle, cfg config.Config, zl *zap.Logger) error {
	shutdown, err := tracing.Init(context.Background(), cfg)
	if err != nil {
		return err
	}
	if cfg.Tracing.Endpoint != "" {
		zl.Info("tracing enabled", zap.String("endpoint", cfg.Tracing.Endpoint), zap.Float64("sampleRate", cfg.Tracing.SampleRate))
	}
	lc.Append(fx.Hook{OnStop: func(ctx context.Context) error { return shutdown(ctx) }})
	return nil
}

func registerKafka(lc fx.Lifecycle, cfg config.Config, d *core.Dispatcher, zl *zap.Logger) error {
	if !cfg.Kafka.Enabled() {
		return nil
	}
	c, err := kafka.NewConsumer(cfg.Kafka, d, zl)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				c.Run(ctx)
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
			case <-stopCtx.Done():
			}
			c.Close()
			return nil
		},
	})
	return nil
}

func registerRelayReceiver(lc fx.Lifecycle, cfg config.Config, r *factory.Router, zl *zap.Logger) {
	if cfg.Relay.Address == "" {
		return
	}
	// Replies leave through the receiver's own forward hop.
	d := core.NewDispatcher(r, nil, zl.Named("relay"))
	ctx, cancel := context.WithCancel(context.Background())
	var stop func()

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			s, err := electrician.StartReceiver(ctx, cfg.Relay, d, zl)
			if errors.Is(err, electrician.ErrNoTargets) {
				zl.Warn("relay receiver skipped: no targets", zap.String("address", cfg.Relay.Address))
				return nil
			}
			if err != nil {
				return err
			}
			stop = s
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			if stop != nil {
				stop()
			}
			return nil
		},
	})
}

type serverDeps struct {
	fx.In
	Config config.Config
	Logger *zap.Logger
	App    http.Handler `name:"app"`
}

func registerServer(lc fx.Lifecycle, d serverDeps) {
	addr := d.Config.HTTP.Listen
	cert, key := d.Config.HTTP.TLSCert, d.Config.HTTP.TLSKey

	srv := &http.Server{
		Addr:         addr,
		Handler:      d.App,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		TLSConfig:    &tls.Config{MinVersion: tls.VersionTLS13, MaxVersion: tls.VersionTLS13},
	}
	useTLS := fileExists(cert) && fileExists(key)

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			if useTLS {
				d.Logger.Info("server starting (TLS)", zap.String("addr", addr), zap.String("cert", cert))
				go func() {
					if err := srv.ListenAndServeTLS(cert, key); err != nil && !errors.Is(err, http.ErrServerClosed) {
						d.Logger.Fatal("server failed", zap.Error(err))
					}
				}()
				return nil
			}
			d.Logger.Info("server starting (PLAINTEXT)", zap.String("addr", addr))
			srv.TLSConfig = nil
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					d.Logger.Fatal("server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			d.Logger.Info("server stopping")
			return srv.Shutdown(ctx)
		},
	})
}

// ---------- tiny helpers ----------

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}
