// pkg/config/load.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Load reads a TOML (default) or YAML (.yaml/.yml) file on top of Default(),
// applies env overrides and validates. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return Config{}, err
	default:
		if err := decode(path, b, &cfg); err != nil {
			return Config{}, fmt.Errorf("config %s: %w", path, err)
		}
	}
	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func decode(path string, b []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(b, cfg)
	default:
		return toml.Unmarshal(b, cfg)
	}
}

func applyEnv(c *Config) {
	if v := os.Getenv("SERVER_LISTEN_ADDRESS"); v != "" {
		c.HTTP.Listen = v
	}
	if v := os.Getenv("SSL_SERVER_CERTIFICATE"); v != "" {
		c.HTTP.TLSCert = v
	}
	if v := os.Getenv("SSL_SERVER_KEY"); v != "" {
		c.HTTP.TLSKey = v
	}
	if v := strings.TrimSpace(os.Getenv("AUTH_HMAC_SECRET")); v != "" {
		c.Auth.HMACSecret = v
	}
	if os.Getenv("AUTH_DEV_BYPASS") == "true" {
		c.Auth.DevBypass = true
	}
	if v := splitCSV(os.Getenv("KAFKA_BROKERS")); len(v) > 0 {
		c.Kafka.Brokers = v
	}
	if v := splitCSV(os.Getenv("ELECTRICIAN_TARGET")); len(v) > 0 {
		c.Relay.Targets = v
	}
	if v := strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")); v != "" {
		c.Tracing.Endpoint = v
	}
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if x := strings.TrimSpace(p); x != "" {
			out = append(out, x)
		}
	}
	return out
}
