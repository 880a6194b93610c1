// Package logging provides the structured logger every component of the
// server pulls a named child from. Format and level are controlled by
// LOG_FORMAT and LOG_LEVEL, the same knobs a zap-based service typically
// exposes instead of hand-rolled flags.
package logging

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	baseConfig = NewConfig()
	baseLogger = zap.Must(baseConfig.Build())
)

func NewConfig() zap.Config {
	var config zap.Config

	if os.Getenv("LOG_FORMAT") == "development" {
		config = newDevelopmentConfig()
	} else {
		config = newProductionConfig()
	}

	if level, ok := os.LookupEnv("LOG_LEVEL"); ok {
		if strings.ToLower(level) == "warning" {
			level = "warn"
		}
		if lvl, err := zap.ParseAtomicLevel(level); err == nil {
			config.Level = lvl
		}
	}

	return config
}

func newDevelopmentConfig() zap.Config {
	return zap.Config{
		Level:             zap.NewAtomicLevelAt(zap.DebugLevel),
		Development:       true,
		DisableStacktrace: true,
		Encoding:          "console",
		EncoderConfig:     newDevelopmentEncoderConfig(),
		OutputPaths:       []string{"stderr"},
	}
}

func newProductionConfig() zap.Config {
	return zap.Config{
		Level:       zap.NewAtomicLevelAt(zap.InfoLevel),
		Development: false,
		Sampling: &zap.SamplingConfig{
			Initial:    100,
			Thereafter: 100,
		},
		Encoding:      "json",
		EncoderConfig: newProductionEncoderConfig(),
		OutputPaths:   []string{"stdout"},
	}
}

func newDevelopmentEncoderConfig() zapcore.EncoderConfig {
	encoderConfig := newProductionEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	encoderConfig.NameKey = ""
	return encoderConfig
}

func newProductionEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "severity",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}

// New returns a logger named for its caller, e.g. New("session") for every
// log line a connection's session loop emits.
func New(name string) *zap.Logger {
	return baseLogger.Named(name)
}
