package logger

import (
	"github.com/joeydtaylor/steeze-factory/pkg/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func ProvideLogger(cfg config.Config) *zap.Logger {
	return NewLog(cfg.Log.Dir, "system.log", ParseLevel(cfg.Log.Level))
}

func ProvideLoggerMiddleware(cfg config.Config) *Middleware {
	return NewMiddleware(NewAccessLog(cfg.Log.Dir, "http-access.log"))
}

var Module = fx.Options(
	fx.Provide(ProvideLoggerMiddleware),
	fx.Provide(ProvideLogger),
)
