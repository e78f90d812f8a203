package rmagui

import (
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
)

// LogConfig is the unmarshaled logging configuration.
type LogConfig struct {
	// Level is the minimum enabled level, e.g. "debug" or "info".  Defaults to "info".
	Level string

	// Development enables zap's development mode:  stack traces on warnings
	// and console-friendly output.
	Development bool

	// Encoding is either "json" or "console".  Defaults to "json", or
	// "console" in development mode.
	Encoding string
}

// NewLogger builds a *zap.Logger from this configuration.
func (lc LogConfig) NewLogger(opts ...zap.Option) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if lc.Development {
		zc = zap.NewDevelopmentConfig()
	}

	if len(lc.Level) > 0 {
		level, err := zapcore.ParseLevel(lc.Level)
		if err != nil {
			return nil, fmt.Errorf("logging level: %w", err)
		}

		zc.Level = zap.NewAtomicLevelAt(level)
	}

	if len(lc.Encoding) > 0 {
		zc.Encoding = lc.Encoding
	}

	return zc.Build(opts...)
}

// Logger establishes l as both the fx event logger and an unnamed *zap.Logger
// component.  Code in this module uses that component for diagnostics.
func Logger(l *zap.Logger) fx.Option {
	return fx.Options(
		fx.WithLogger(
			func() fxevent.Logger {
				return &fxevent.ZapLogger{Logger: l}
			},
		),
		fx.Supply(l),
	)
}

// TestLogger uses Logger to route fx and module logging to a *testing.T or *testing.B.
func TestLogger(t zaptest.TestingT) fx.Option {
	return Logger(zaptest.NewLogger(t))
}
