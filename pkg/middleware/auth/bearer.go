package auth

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// Claims carried by factory tokens.
type Claims struct {
	jwt.RegisteredClaims
	UID   string   `json:"uid"`
	Roles []string `json:"roles"`
	Role  string   `json:"role"`
}

func (m *Middleware) validateBearer(raw string) (User, error) {
	if len(m.secret) == 0 {
		return User{}, errors.New("bearer secret not configured")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(m.leeway),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}
	if m.audience != "" {
		opts = append(opts, jwt.WithAudience(m.audience))
	}

	var claims Claims
	tok, err := jwt.NewParser(opts...).ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	})
	if err != nil || !tok.Valid {
		return User{}, errors.New("invalid bearer token")
	}

	username := firstNonEmpty(claims.UID, claims.Subject)
	if username == "" {
		return User{}, errors.New("missing uid")
	}

	return User{
		Username:             username,
		AuthenticationSource: AuthenticationSource{Provider: "bearer"},
		Role:                 Role{Name: firstNonEmpty(claims.Role, first(claims.Roles...))},
	}, nil
}
