// Package logging builds the zap loggers used by the function manager.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultLevel is used when LOG_LEVEL is unset or unrecognized
const DefaultLevel = "INFO"

// ParseLevel converts a LOG_LEVEL value into a zap level.
// Python style names (WARNING, CRITICAL) are accepted as well.
func ParseLevel(level string) (zapcore.Level, error) {
	normalized := strings.ToLower(strings.TrimSpace(level))
	switch normalized {
	case "":
		return zapcore.InfoLevel, nil
	case "warning":
		normalized = "warn"
	case "critical", "fatal":
		normalized = "error"
	}

	lvl, err := zapcore.ParseLevel(normalized)
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", level)
	}
	return lvl, nil
}

// New returns a JSON logger suitable for CloudWatch Logs, or a console logger
// when console is true. An unknown level falls back to INFO and is reported
// through the returned logger.
func New(level string, console bool) (*zap.Logger, error) {
	lvl, parseErr := ParseLevel(level)

	var cfg zap.Config
	if console {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cfg.DisableStacktrace = true
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.Sampling = nil
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("error building logger: %w", err)
	}

	if parseErr != nil {
		logger.Warn("Falling back to default log level",
			zap.String("requested", level),
			zap.String("level", DefaultLevel))
	}

	return logger, nil
}
