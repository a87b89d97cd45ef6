package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config contains configuration for the logger
type Config struct {
	Debug  bool   // Enable debug level logging
	Format string // "json" or "console"
}

// DefaultConfig returns a default configuration
func DefaultConfig() Config {
	return Config{
		Debug:  false,
		Format: "console",
	}
}

// New builds a logger writing to stderr, leaving stdout free for step output.
func New(config Config) (*zap.Logger, error) {
	var zapConfig zap.Config

	switch config.Format {
	case "json":
		zapConfig = zap.NewProductionConfig()
	case "console", "":
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapConfig.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	default:
		return nil, fmt.Errorf("unsupported log format %q", config.Format)
	}

	zapConfig.OutputPaths = []string{"stderr"}
	zapConfig.ErrorOutputPaths = []string{"stderr"}

	if config.Debug {
		zapConfig.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	logger, err := zapConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// FromEnv reads LOG_FORMAT and LOG_DEBUG over the defaults.
func FromEnv() Config {
	config := DefaultConfig()
	if f := os.Getenv("LOG_FORMAT"); f != "" {
		config.Format = f
	}
	if d := os.Getenv("LOG_DEBUG"); d == "1" || d == "true" {
		config.Debug = true
	}
	return config
}
