package rmahttp

import (
	"errors"
	"net/http"
	"reflect"
	"testing"
	"time"

	"github.com/iccolo/rmagui/rmatest"
	"github.com/stretchr/testify/suite"
	"go.uber.org/multierr"
)

type ClientOptionSuite struct {
	rmatest.OptionSuite[http.Client]
}

func (suite *ClientOptionSuite) TestAsClientOption() {
	suite.Run("ClientOption", func() {
		opt := ClientOptionFunc(func(c *http.Client) error {
			c.Timeout = time.Second
			return nil
		})

		suite.NoError(AsClientOption(opt).Apply(suite.Target))
		suite.Equal(time.Second, suite.Target.Timeout)
	})

	suite.Run("FuncWithError", func() {
		expected := errors.New("expected")
		err := AsClientOption(func(*http.Client) error { return expected }).Apply(suite.Target)
		suite.Same(expected, err)
	})

	suite.Run("FuncNoError", func() {
		suite.NoError(AsClientOption(func(c *http.Client) { c.Timeout = time.Minute }).Apply(suite.Target))
		suite.Equal(time.Minute, suite.Target.Timeout)
	})

	suite.Run("InvalidType", func() {
		var icote *InvalidClientOptionTypeError
		suite.Require().ErrorAs(AsClientOption(123).Apply(suite.Target), &icote)
		suite.Equal(reflect.TypeOf(123), icote.Type)
		suite.Contains(icote.Error(), "int")
	})

	suite.Run("Nil", func() {
		var icote *InvalidClientOptionTypeError
		suite.Require().ErrorAs(AsClientOption(nil).Apply(suite.Target), &icote)
		suite.Nil(icote.Type)
		suite.NotEmpty(icote.Error())
	})
}

func (suite *ClientOptionSuite) TestClientOptions() {
	suite.Run("Empty", func() {
		var co ClientOptions
		suite.NoError(co.Apply(suite.Target))
	})

	suite.Run("Add", func() {
		var co ClientOptions
		co.Add(
			func(c *http.Client) { c.Timeout = time.Hour },
			func(c *http.Client) error {
				c.Jar = nil
				return nil
			},
		)

		suite.Len(co, 2)
		suite.NoError(co.Apply(suite.Target))
		suite.Equal(time.Hour, suite.Target.Timeout)
	})

	suite.Run("AllRunOnError", func() {
		var (
			ran int
			co  ClientOptions
		)

		co.Add(
			func(*http.Client) error { ran++; return errors.New("first") },
			func(*http.Client) { ran++ },
			"not an option",
		)

		err := co.Apply(suite.Target)
		suite.Equal(2, ran)
		suite.Len(multierr.Errors(err), 2)
	})
}

func (suite *ClientOptionSuite) TestClientMiddleware() {
	var (
		calls    []string
		expected = new(http.Response)
		request  = new(http.Request)
		next     = new(rmatest.MockRoundTripper)
	)

	next.Expect(request).Response(expected).Once()
	suite.Target.Transport = next

	mark := func(name string) RoundTripperConstructor {
		return func(next http.RoundTripper) http.RoundTripper {
			return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
				calls = append(calls, name)
				return next.RoundTrip(r)
			})
		}
	}

	suite.NoError(ClientMiddleware(mark("outer"), mark("inner")).Apply(suite.Target))

	actual, err := suite.Target.Transport.RoundTrip(request)
	suite.NoError(err)
	suite.Same(expected, actual)
	suite.Equal([]string{"outer", "inner"}, calls)
	next.AssertExpectations(suite.T())
}

func TestClientOption(t *testing.T) {
	suite.Run(t, new(ClientOptionSuite))
}
