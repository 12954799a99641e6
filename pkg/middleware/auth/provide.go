package auth

import (
	"time"

	"github.com/joeydtaylor/steeze-factory/pkg/config"
	"go.uber.org/fx"
)

// ProvideAuthentication builds the middleware from the auth config section.
func ProvideAuthentication(cfg config.Config) *Middleware {
	return New(cfg.Auth)
}

func New(a config.Auth) *Middleware {
	return &Middleware{
		secret:    []byte(a.HMACSecret),
		issuer:    a.Issuer,
		audience:  a.Audience,
		adminRole: a.AdminRole,
		devBypass: a.DevBypass,
		leeway:    60 * time.Second,
	}
}

var Module = fx.Options(
	fx.Provide(ProvideAuthentication),
)
