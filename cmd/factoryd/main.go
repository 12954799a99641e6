package main

import (
	"github.com/joeydtaylor/steeze-factory/pkg/serverfx"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func main() {
	app := fx.New(
		serverfx.Module(
			serverfx.WithConfigEnv("FACTORY_CONFIG"),
			serverfx.WithDefaultConfig("factory.toml"),
		),
	)
	if err := app.Err(); err != nil {
		log, _ := zap.NewProduction()
		log.Fatal("startup failed", zap.Error(err))
	}
	app.Run()
}
