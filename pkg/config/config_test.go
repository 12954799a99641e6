package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/joeydtaylor/steeze-factory/pkg/config"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return p
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.HTTP.Listen != ":4000" {
		t.Errorf("HTTP.Listen = %q, want :4000", cfg.HTTP.Listen)
	}
	if cfg.Store.NfcLogLimit != 0 {
		t.Errorf("Store.NfcLogLimit = %d, want 0", cfg.Store.NfcLogLimit)
	}
	if cfg.Kafka.Enabled() {
		t.Error("Kafka.Enabled() = true, want false")
	}
}

func TestLoad_TOML(t *testing.T) {
	p := writeFile(t, "factory.toml", `
service = "line-7"

[http]
listen = ":8080"
timeout_ms = 250

[store]
nfc_log_limit = 500

[kafka]
brokers = ["127.0.0.1:19092"]
topics = ["dashboard.order", "nfc.reader"]
reply_topic = "factory.replies"

[relay]
targets = ["localhost:50051"]
compress = "SNAPPY"
`)
	cfg, err := config.Load(p)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Service != "line-7" || cfg.HTTP.Listen != ":8080" || cfg.HTTP.TimeoutMS != 250 {
		t.Errorf("Load() = %+v", cfg)
	}
	if cfg.Store.NfcLogLimit != 500 {
		t.Errorf("Store.NfcLogLimit = %d, want 500", cfg.Store.NfcLogLimit)
	}
	if !cfg.Kafka.Enabled() || cfg.Kafka.ReplyTopic != "factory.replies" {
		t.Errorf("Kafka = %+v", cfg.Kafka)
	}
	if cfg.Kafka.Group != "factory-router" {
		t.Errorf("Kafka.Group = %q, want default", cfg.Kafka.Group)
	}
	if cfg.Relay.Compress != "snappy" || cfg.Relay.BufferSize != 1024 {
		t.Errorf("Relay = %+v", cfg.Relay)
	}
}

func TestLoad_YAML(t *testing.T) {
	p := writeFile(t, "factory.yaml", `
service: cell-2
log:
  level: DEBUG
auth:
  require_auth: true
  hmac_secret: s3cret
`)
	cfg, err := config.Load(p)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Service != "cell-2" || cfg.Log.Level != "debug" {
		t.Errorf("Load() = %+v", cfg)
	}
	if !cfg.Auth.RequireAuth || cfg.Auth.HMACSecret != "s3cret" {
		t.Errorf("Auth = %+v", cfg.Auth)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_LISTEN_ADDRESS", ":9999")
	t.Setenv("KAFKA_BROKERS", "a:1, b:2")
	p := writeFile(t, "factory.toml", "[kafka]\ntopics = [\"factory.status\"]\n")

	cfg, err := config.Load(p)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.HTTP.Listen != ":9999" {
		t.Errorf("HTTP.Listen = %q, want :9999", cfg.HTTP.Listen)
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[1] != "b:2" {
		t.Errorf("Kafka.Brokers = %v", cfg.Kafka.Brokers)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   error
	}{
		{"defaults", func(*config.Config) {}, nil},
		{"auth without key", func(c *config.Config) { c.Auth.RequireAuth = true }, config.ErrAuthNoKey},
		{"auth with dev bypass", func(c *config.Config) { c.Auth.RequireAuth = true; c.Auth.DevBypass = true }, nil},
		{"kafka without topics", func(c *config.Config) { c.Kafka.Brokers = []string{"x:1"} }, config.ErrKafkaTopics},
		{"aesgcm without key", func(c *config.Config) { c.Relay.Encrypt = "aesgcm" }, config.ErrRelayKey},
		{"sample rate", func(c *config.Config) { c.Tracing.SampleRate = 2 }, config.ErrSampleRate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.want == nil && err != nil {
				t.Fatalf("Validate() error = %v, want nil", err)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Fatalf("Validate() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestValidate_RejectsBadValues(t *testing.T) {
	bad := []func(*config.Config){
		func(c *config.Config) { c.HTTP.TimeoutMS = -1 },
		func(c *config.Config) { c.HTTP.TLSCert = "cert.pem" },
		func(c *config.Config) { c.Log.Level = "loud" },
		func(c *config.Config) { c.Store.NfcLogLimit = -5 },
		func(c *config.Config) { c.Relay.Compress = "gzip" },
		func(c *config.Config) { c.Relay.Encrypt = "rot13" },
	}
	for i, mutate := range bad {
		cfg := config.Default()
		mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("case %d: Validate() error = nil, want error", i)
		}
	}
}
