package logger

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

func ensureLogDir(dir string) string {
	if dir == "" {
		dir = "log"
	}
	_ = os.MkdirAll(dir, 0o755)
	return dir
}

// ParseLevel maps a config level name to a zap level, defaulting to info.
func ParseLevel(s string) zapcore.Level {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return zap.InfoLevel
	}
	return l
}

// NewLog writes JSON to stdout and to a rotated file dir/n.
func NewLog(dir, n string, level zapcore.Level) *zap.Logger {
	return zap.New(newCore(dir, n, level, zap.NewProductionEncoderConfig()))
}

// NewAccessLog is NewLog without a message key; access lines are all fields.
func NewAccessLog(dir, n string) *zap.Logger {
	cfg := zap.NewProductionEncoderConfig()
	cfg.MessageKey = zapcore.OmitKey
	return zap.New(newCore(dir, n, zap.InfoLevel, cfg))
}

func newCore(dir, n string, level zapcore.Level, cfg zapcore.EncoderConfig) zapcore.Core {
	logPath := filepath.Join(ensureLogDir(dir), n)

	console := zapcore.Lock(os.Stdout)
	w := zapcore.AddSync(&lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    50, // MB
		MaxBackups: 3,
		MaxAge:     7, // days
	})

	return zapcore.NewTee(
		zapcore.NewCore(zapcore.NewJSONEncoder(cfg), w, level),
		zapcore.NewCore(zapcore.NewJSONEncoder(cfg), console, level),
	)
}
