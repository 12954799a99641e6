// pkg/config/config.go
package config

import (
	"errors"
	"fmt"
	"strings"
)

// Config is the top-level service configuration.
type Config struct {
	Service string  `toml:"service" yaml:"service"`
	HTTP    HTTP    `toml:"http" yaml:"http"`
	Log     Log     `toml:"log" yaml:"log"`
	Store   Store   `toml:"store" yaml:"store"`
	Auth    Auth    `toml:"auth" yaml:"auth"`
	Kafka   Kafka   `toml:"kafka" yaml:"kafka"`
	Relay   Relay   `toml:"relay" yaml:"relay"`
	Tracing Tracing `toml:"tracing" yaml:"tracing"`
}

type HTTP struct {
	Listen    string `toml:"listen" yaml:"listen"`
	TimeoutMS int    `toml:"timeout_ms" yaml:"timeout_ms"`
	TLSCert   string `toml:"tls_cert" yaml:"tls_cert"`
	TLSKey    string `toml:"tls_key" yaml:"tls_key"`
}

type Log struct {
	Dir   string `toml:"dir" yaml:"dir"`
	Level string `toml:"level" yaml:"level"` // debug | info | warn | error
}

type Store struct {
	NfcLogLimit int `toml:"nfc_log_limit" yaml:"nfc_log_limit"` // 0 = unbounded
}

type Auth struct {
	RequireAuth bool   `toml:"require_auth" yaml:"require_auth"`
	HMACSecret  string `toml:"hmac_secret" yaml:"hmac_secret"`
	Issuer      string `toml:"issuer" yaml:"issuer"`
	Audience    string `toml:"audience" yaml:"audience"`
	AdminRole   string `toml:"admin_role" yaml:"admin_role"`
	DevBypass   bool   `toml:"dev_bypass" yaml:"dev_bypass"`
}

type Kafka struct {
	Brokers    []string `toml:"brokers" yaml:"brokers"`
	Topics     []string `toml:"topics" yaml:"topics"`
	Group      string   `toml:"group" yaml:"group"`
	ReplyTopic string   `toml:"reply_topic" yaml:"reply_topic"`
	ClientID   string   `toml:"client_id" yaml:"client_id"`
}

// Enabled reports whether the Kafka transport should run.
func (k Kafka) Enabled() bool { return len(k.Brokers) > 0 && len(k.Topics) > 0 }

type Relay struct {
	Address       string            `toml:"address" yaml:"address"` // receiver host:port
	Targets       []string          `toml:"targets" yaml:"targets"` // forward host:port list
	BufferSize    int               `toml:"buffer_size" yaml:"buffer_size"`
	Compress      string            `toml:"compress" yaml:"compress"` // "snappy" | ""
	Encrypt       string            `toml:"encrypt" yaml:"encrypt"`   // "aesgcm" | ""
	AES256KeyHex  string            `toml:"aes256_key_hex" yaml:"aes256_key_hex"`
	TLSEnable     bool              `toml:"tls_enable" yaml:"tls_enable"`
	TLSClientCert string            `toml:"tls_client_cert" yaml:"tls_client_cert"`
	TLSClientKey  string            `toml:"tls_client_key" yaml:"tls_client_key"`
	TLSServerCert string            `toml:"tls_server_cert" yaml:"tls_server_cert"`
	TLSServerKey  string            `toml:"tls_server_key" yaml:"tls_server_key"`
	TLSCA         string            `toml:"tls_ca" yaml:"tls_ca"`
	StaticHeaders map[string]string `toml:"static_headers" yaml:"static_headers"`
}

type Tracing struct {
	Endpoint   string  `toml:"endpoint" yaml:"endpoint"`
	SampleRate float64 `toml:"sample_rate" yaml:"sample_rate"`
	Insecure   bool    `toml:"insecure" yaml:"insecure"`
}

var (
	ErrRelayKey    = errors.New("relay.aes256_key_hex must be 64 hex chars when relay.encrypt = \"aesgcm\"")
	ErrSampleRate  = errors.New("tracing.sample_rate must be in [0,1]")
	ErrAuthNoKey   = errors.New("auth.require_auth needs auth.hmac_secret or auth.dev_bypass")
	ErrKafkaTopics = errors.New("kafka.topics required when kafka.brokers is set")
)

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Service: "factory",
		HTTP:    HTTP{Listen: ":4000", TimeoutMS: 5000},
		Log:     Log{Dir: "log", Level: "info"},
		Auth:    Auth{AdminRole: "admin"},
		Kafka:   Kafka{Group: "factory-router", ClientID: "factory-router"},
		Relay:   Relay{BufferSize: 1024},
		Tracing: Tracing{SampleRate: 1.0, Insecure: true},
	}
}

func (c *Config) normalize() {
	c.Service = strings.TrimSpace(c.Service)
	if c.Service == "" {
		c.Service = "factory"
	}
	if c.HTTP.Listen == "" {
		c.HTTP.Listen = ":4000"
	}
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Dir == "" {
		c.Log.Dir = "log"
	}
	if c.Kafka.Group == "" {
		c.Kafka.Group = "factory-router"
	}
	if c.Kafka.ClientID == "" {
		c.Kafka.ClientID = c.Kafka.Group
	}
	if c.Relay.BufferSize <= 0 {
		c.Relay.BufferSize = 1024
	}
	c.Relay.Compress = strings.ToLower(strings.TrimSpace(c.Relay.Compress))
	c.Relay.Encrypt = strings.ToLower(strings.TrimSpace(c.Relay.Encrypt))
}

// Validate normalizes defaults in place and checks cross-field rules.
func (c *Config) Validate() error {
	c.normalize()

	if c.HTTP.TimeoutMS < 0 {
		return errors.New("http.timeout_ms must be >= 0")
	}
	if (c.HTTP.TLSCert == "") != (c.HTTP.TLSKey == "") {
		return errors.New("http.tls_cert and http.tls_key must be set together")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q invalid", c.Log.Level)
	}
	if c.Store.NfcLogLimit < 0 {
		return errors.New("store.nfc_log_limit must be >= 0")
	}
	if c.Auth.RequireAuth && c.Auth.HMACSecret == "" && !c.Auth.DevBypass {
		return ErrAuthNoKey
	}
	if len(c.Kafka.Brokers) > 0 && len(c.Kafka.Topics) == 0 {
		return ErrKafkaTopics
	}
	switch c.Relay.Compress {
	case "", "snappy":
	default:
		return fmt.Errorf("relay.compress %q invalid", c.Relay.Compress)
	}
	switch c.Relay.Encrypt {
	case "":
	case "aesgcm":
		if len(strings.TrimSpace(c.Relay.AES256KeyHex)) != 64 {
			return ErrRelayKey
		}
	default:
		return fmt.Errorf("relay.encrypt %q invalid", c.Relay.Encrypt)
	}
	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		return ErrSampleRate
	}
	return nil
}
