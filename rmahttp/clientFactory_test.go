package rmahttp

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/iccolo/rmagui"
	"github.com/iccolo/rmagui/rmatest"
	"github.com/stretchr/testify/suite"
	"go.uber.org/fx"
)

type ClientFactorySuite struct {
	rmatest.Suite
}

func (suite *ClientFactorySuite) TestProvideKey() {
	suite.YAML(`
client:
  timeout: 2s
  responseEncoding: text
  baseAddress: http://rma.example.com:8080
  header:
    x-rma-test: [value]
`)

	var c *Client
	app := suite.Fxtest(
		NewClientBuilder().ProvideKey("client"),
		fx.Populate(
			fx.Annotate(
				&c,
				fx.ParamTags(`name:"client"`),
			),
		),
	)

	app.RequireStart()
	defer app.RequireStop()

	suite.Require().NotNil(c)
	cc := c.Config()
	suite.Equal(2*time.Second, cc.Timeout)
	suite.Equal(EncodingText, cc.ResponseEncoding)
	suite.Equal("http://rma.example.com:8080", cc.BaseAddress)
	suite.Equal("value", cc.Header.Get("X-Rma-Test"))
}

func (suite *ClientFactorySuite) TestDefaults() {
	suite.YAML(`
other:
  value: 1
`)

	var c *Client
	app := suite.Fxtest(
		fx.Provide(NewClientBuilder().UnmarshalKey("client")),
		fx.Populate(&c),
	)

	app.RequireStart()
	defer app.RequireStop()

	suite.Equal(DefaultClientConfig(), c.Config())
}

func (suite *ClientFactorySuite) TestProvide() {
	suite.YAML(`
baseAddress: http://rma.example.com
`)

	var c *Client
	app := suite.Fxtest(
		NewClientBuilder().Provide(),
		fx.Populate(&c),
	)

	app.RequireStart()
	defer app.RequireStop()

	suite.Equal("http://rma.example.com", c.Config().BaseAddress)
	suite.Equal(DefaultTimeout, c.Config().Timeout)
}

func (suite *ClientFactorySuite) TestPrototype() {
	prototype := DefaultClientConfig()
	prototype.Timeout = time.Minute

	var c *Client
	app := suite.Fxtest(
		fx.Provide(NewClientBuilder().Prototype(prototype).Unmarshal()),
		fx.Populate(&c),
	)

	app.RequireStart()
	defer app.RequireStop()

	suite.Equal(time.Minute, c.Config().Timeout)
}

func (suite *ClientFactorySuite) TestMiddleware() {
	var calls []string
	mark := func(name string) RoundTripperConstructor {
		return func(next http.RoundTripper) http.RoundTripper {
			return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
				calls = append(calls, name)
				return next.RoundTrip(r)
			})
		}
	}

	server := httptest.NewServer(http.HandlerFunc(func(response http.ResponseWriter, _ *http.Request) {
		response.Write([]byte(`["127.0.0.1:6379"]`)) //nolint:errcheck
	}))

	defer server.Close()

	suite.YAML(fmt.Sprintf(`
client:
  timeout: 5s
  baseAddress: %s
`, server.URL))

	var c *Client
	app := suite.Fxtest(
		fx.Provide(
			fx.Annotated{
				Group:  ClientMiddlewareGroup,
				Target: func() RoundTripperConstructor { return mark("injected") },
			},
		),
		fx.Provide(
			NewClientBuilder().
				Middleware(mark("builder")).
				With(ClientOptionFunc(func(hc *http.Client) error {
					hc.Timeout = time.Minute
					return nil
				})).
				UnmarshalKey("client"),
		),
		fx.Populate(&c),
	)

	app.RequireStart()
	defer app.RequireStop()

	var out []string
	suite.Require().NoError(c.Post(context.Background(), "/api/rma/get_instance_list", nil, &out))
	suite.Equal([]string{"127.0.0.1:6379"}, out)
	suite.Equal([]string{"builder", "injected"}, calls)

	suite.Equal(5*time.Second, c.Config().Timeout)
	suite.Equal(time.Minute, c.HTTPClient().Timeout, "options apply after the configuration")
}

func (suite *ClientFactorySuite) TestInvalid() {
	suite.YAML(`
client:
  timeout: -1s
`)

	app := suite.Fx(
		fx.Provide(NewClientBuilder().UnmarshalKey("client")),
		fx.Invoke(func(*Client) {}),
	)

	suite.ErrorIs(app.Err(), ErrInvalidTimeout)
	rmatest.AssertExitCode(suite, app.Err(), rmagui.ConfigurationExitCode)
}

func (suite *ClientFactorySuite) TestUnknownEncoding() {
	suite.YAML(`
client:
  responseEncoding: xml
`)

	app := suite.Fx(
		fx.Provide(NewClientBuilder().UnmarshalKey("client")),
		fx.Invoke(func(*Client) {}),
	)

	// the decoder reports the UnmarshalText failure as text
	suite.ErrorContains(app.Err(), `unsupported response encoding: "xml"`)
	rmatest.AssertExitCode(suite, app.Err(), rmagui.ConfigurationExitCode)
}

func (suite *ClientFactorySuite) TestMalformed() {
	suite.YAML(`
client:
  timeout: soon
`)

	app := suite.Fx(
		fx.Provide(NewClientBuilder().UnmarshalKey("client")),
		fx.Invoke(func(*Client) {}),
	)

	suite.ErrorContains(app.Err(), "client")
	rmatest.AssertExitCode(suite, app.Err(), rmagui.ConfigurationExitCode)
}

func TestClientFactory(t *testing.T) {
	suite.Run(t, new(ClientFactorySuite))
}
