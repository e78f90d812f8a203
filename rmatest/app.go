package rmatest

import (
	"github.com/iccolo/rmagui"
	"github.com/stretchr/testify/assert"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
)

// NewApp creates an *fxtest.App bound to the enclosing test.  The t parameter
// has the same restrictions as AsTestable.
func NewApp(t any, o ...fx.Option) *fxtest.App {
	return fxtest.New(AsTestable(t), o...)
}

// NewErrApp creates an *fx.App that is expected to fail while the graph is
// built, as happens with invalid configuration.  It asserts that app.Err()
// is non-nil and returns the app for further assertions.
//
// The returned app's fx event logging is silenced.
func NewErrApp(t any, o ...fx.Option) *fx.App {
	app := fx.New(
		append(
			o,
			fx.NopLogger,
		)...,
	)

	assert.Error(AsTestable(t), app.Err(), "the application graph should have failed")
	return app
}

// AssertExitCode asserts that err maps to the expected process exit code
// under rmagui.ExitCodeFor.
func AssertExitCode(t any, err error, expected int) bool {
	return assert.Equal(
		AsTestable(t),
		expected,
		rmagui.ExitCodeFor(err, nil),
		"wrong exit code for error: %v", err,
	)
}
