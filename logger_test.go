package rmagui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestLogConfig(t *testing.T) {
	testCases := []struct {
		name     string
		config   LogConfig
		expected zapcore.Level
	}{
		{name: "Default", config: LogConfig{}, expected: zapcore.InfoLevel},
		{name: "Debug", config: LogConfig{Level: "debug"}, expected: zapcore.DebugLevel},
		{name: "Development", config: LogConfig{Development: true, Encoding: "console"}, expected: zapcore.DebugLevel},
		{name: "Warn", config: LogConfig{Level: "warn", Encoding: "json"}, expected: zapcore.WarnLevel},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			var (
				assert  = assert.New(t)
				require = require.New(t)
			)

			l, err := testCase.config.NewLogger()
			require.NoError(err)
			require.NotNil(l)
			assert.True(l.Core().Enabled(testCase.expected))
			assert.False(l.Core().Enabled(testCase.expected - 1))
		})
	}

	t.Run("InvalidLevel", func(t *testing.T) {
		_, err := LogConfig{Level: "loud"}.NewLogger()
		assert.Error(t, err)
	})
}

func TestLoggerOption(t *testing.T) {
	var (
		expected = zap.NewNop()
		actual   *zap.Logger
	)

	fxtest.New(
		t,
		Logger(expected),
		fx.Populate(&actual),
	)

	assert.Same(t, expected, actual)
}

func TestTestLogger(t *testing.T) {
	var actual *zap.Logger
	fxtest.New(
		t,
		TestLogger(t),
		fx.Populate(&actual),
	)

	require.NotNil(t, actual)
	actual.Info("routed to the test log")
}
