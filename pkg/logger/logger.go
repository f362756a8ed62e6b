package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a zap logger configured for the given environment.
// "production" gets JSON output at info level; everything else gets the
// development console encoder at debug level.
func New(env string) (*zap.Logger, error) {
	if env == "production" {
		cfg := zap.NewProductionConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		return cfg.Build()
	}
	return zap.NewDevelopment()
}

// NewNamed creates a logger for the given environment with a service name
// attached to every entry.
func NewNamed(env, service string) (*zap.Logger, error) {
	log, err := New(env)
	if err != nil {
		return nil, err
	}
	return log.Named(service), nil
}
