// pkg/bundlefx/bundlefx.go
package bundlefx

import (
	"github.com/joeydtaylor/steeze-factory/pkg/middleware/auth"
	"github.com/joeydtaylor/steeze-factory/pkg/middleware/logger"
	"github.com/joeydtaylor/steeze-factory/pkg/middleware/metrics"
	"go.uber.org/fx"
)

// Module provides the middleware stack: bearer auth, zap loggers and
// prometheus metrics. Everything in it needs a config.Config.
var Module = fx.Options(
	auth.Module,
	logger.Module,
	metrics.Module,
)
