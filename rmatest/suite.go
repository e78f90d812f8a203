package rmatest

import (
	"strings"

	"github.com/iccolo/rmagui"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/suite"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
)

// Suite is an embeddable type that makes viper-related tests simpler.
// Embed this type in testify/suite-style test types.
type Suite struct {
	suite.Suite

	// viper is the viper instance for each test
	viper *viper.Viper
}

var _ suite.SetupTestSuite = (*Suite)(nil)

// SetupTest initializes a new viper instance for each test
func (suite *Suite) SetupTest() {
	suite.viper = viper.New()
}

// SetupSubTest gives each subtest its own viper instance
func (suite *Suite) SetupSubTest() {
	suite.viper = viper.New()
}

// Viper returns the viper instance for the current test.
func (suite *Suite) Viper() *viper.Viper {
	return suite.viper
}

// YAML bootstraps the current test's viper environment with a YAML document
func (suite *Suite) YAML(v string) {
	suite.viper.SetConfigType("yaml")

	suite.Require().NoError(
		suite.viper.ReadConfig(strings.NewReader(v)),
	)
}

// JSON bootstraps the current test's viper environment with a JSON document
func (suite *Suite) JSON(v string) {
	suite.viper.SetConfigType("json")

	suite.Require().NoError(
		suite.viper.ReadConfig(strings.NewReader(v)),
	)
}

func (suite *Suite) options(more []fx.Option) []fx.Option {
	return append(
		[]fx.Option{
			rmagui.TestLogger(suite.T()),
			rmagui.ForViper(suite.viper, rmagui.DefaultDecodeHooks),
		},
		more...,
	)
}

// Fxtest is a convenience for doing fxtest.New(...) with the current
// viper environment, test logging, and the additional fx.Options
func (suite *Suite) Fxtest(more ...fx.Option) *fxtest.App {
	return NewApp(suite, suite.options(more)...)
}

// Fx is a convenience for doing NewErrApp(...) with the current
// viper environment and the additional fx.Options.  Use this when the app is
// expected to fail.
func (suite *Suite) Fx(more ...fx.Option) *fx.App {
	return NewErrApp(suite, suite.options(more)...)
}
