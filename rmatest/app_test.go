package rmatest

import (
	"errors"
	"testing"

	"github.com/iccolo/rmagui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/fx"
)

type AppSuite struct {
	suite.Suite
}

func (suite *AppSuite) TestNewApp() {
	var address string
	app := NewApp(
		suite,
		fx.Supply("127.0.0.1:6379"),
		fx.Populate(&address),
	)

	app.RequireStart()
	app.RequireStop()
	suite.Equal("127.0.0.1:6379", address)
}

func (suite *AppSuite) TestNewErrApp() {
	suite.Run("ConfigurationError", func() {
		invalid := rmagui.UseExitCode(errors.New("timeout must be positive"), rmagui.ConfigurationExitCode)
		app := NewErrApp(
			suite.T(),
			fx.Provide(func() (string, error) { return "", invalid }),
			fx.Invoke(func(string) {}),
		)

		suite.ErrorIs(app.Err(), invalid)
		suite.True(AssertExitCode(suite, app.Err(), rmagui.ConfigurationExitCode))
	})

	suite.Run("NoError", func() {
		mockT := new(mockTestable)
		mockT.ExpectAnyErrorf().Once()

		app := NewErrApp(mockT, fx.Supply(1))
		suite.NoError(app.Err())
		mockT.AssertExpectations(suite.T())
	})
}

func (suite *AppSuite) TestAssertExitCode() {
	suite.Run("Match", func() {
		suite.True(AssertExitCode(suite, nil, 0))
		suite.True(AssertExitCode(suite.T(), errors.New("plain"), rmagui.DefaultErrorExitCode))
	})

	suite.Run("Mismatch", func() {
		mockT := new(mockTestable)
		mockT.ExpectAnyErrorf().Once()

		err := rmagui.UseExitCode(errors.New("bad flag"), rmagui.UsageExitCode)
		assert.False(suite.T(), AssertExitCode(mockT, err, rmagui.ConfigurationExitCode))
		mockT.AssertExpectations(suite.T())
	})
}

func TestApp(t *testing.T) {
	suite.Run(t, new(AppSuite))
}
