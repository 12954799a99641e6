// pkg/electrician/options.go
package electrician

import (
	"encoding/hex"
	"errors"
	"strings"

	"github.com/joeydtaylor/steeze-factory/pkg/config"
)

// relayOptions is pure-data config for both relay hops.
type relayOptions struct {
	address    string
	targets    []string
	bufferSize uint32

	useTLS    bool
	clientCrt string
	clientKey string
	serverCrt string
	serverKey string
	ca        string

	useSnappy bool
	useAESGCM bool
	aesKey    []byte

	staticHeaders map[string]string
}

var errKeyLength = errors.New("electrician: aes256_key_hex must be 64 hex chars (32 bytes)")

func loadOptions(cfg config.Relay) (relayOptions, error) {
	o := relayOptions{
		address:       strings.TrimSpace(cfg.Address),
		bufferSize:    1024,
		useTLS:        cfg.TLSEnable,
		clientCrt:     or(cfg.TLSClientCert, "keys/tls/client.crt"),
		clientKey:     or(cfg.TLSClientKey, "keys/tls/client.key"),
		serverCrt:     or(cfg.TLSServerCert, "keys/tls/server.crt"),
		serverKey:     or(cfg.TLSServerKey, "keys/tls/server.key"),
		ca:            or(cfg.TLSCA, "keys/tls/ca.crt"),
		useSnappy:     strings.EqualFold(cfg.Compress, "snappy"),
		useAESGCM:     strings.EqualFold(cfg.Encrypt, "aesgcm"),
		staticHeaders: cfg.StaticHeaders,
	}
	for _, t := range cfg.Targets {
		if t = strings.TrimSpace(t); t != "" {
			o.targets = append(o.targets, t)
		}
	}
	if cfg.BufferSize > 0 {
		o.bufferSize = uint32(cfg.BufferSize)
	}
	if k := strings.TrimSpace(cfg.AES256KeyHex); k != "" {
		raw, err := hex.DecodeString(k)
		if err != nil || len(raw) != 32 {
			return o, errKeyLength
		}
		o.aesKey = raw
	} else if o.useAESGCM {
		return o, errKeyLength
	}
	return o, nil
}

// key is the AES key in the string form the builder options take.
func (o relayOptions) key() string { return string(o.aesKey) }

func or(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return def
}
