package rmahttp

import (
	"fmt"

	"github.com/iccolo/rmagui"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ClientMiddlewareGroup is the fx value group from which client builders collect
// additional RoundTripperConstructors.  Group ordering is not guaranteed, so
// middleware whose order matters belongs on the builder instead.
const ClientMiddlewareGroup = "client.middleware"

// ClientIn is the set of dependencies for a client built by C.
type ClientIn struct {
	fx.In

	// Unmarshaler is the required configuration source
	Unmarshaler rmagui.Unmarshaler

	// Logger is the optional logger.  When present, the client's settings are logged.
	Logger *zap.Logger `optional:"true"`

	// Middleware are decorators supplied elsewhere in the enclosing fx.App
	Middleware []RoundTripperConstructor `group:"client.middleware"`
}

// C is a Fluent Builder for a *Client unmarshaled from configuration.  Create
// it with NewClientBuilder.
type C struct {
	prototype  ClientConfig
	options    ClientOptions
	middleware []RoundTripperConstructor
}

// NewClientBuilder starts a builder chain.  The prototype defaults to DefaultClientConfig.
func NewClientBuilder() *C {
	return &C{
		prototype: DefaultClientConfig(),
	}
}

// Prototype replaces the configuration that unmarshaling starts from.
func (c *C) Prototype(cc ClientConfig) *C {
	c.prototype = cc
	return c
}

// With adds options applied to the underlying *http.Client.
func (c *C) With(opts ...ClientOption) *C {
	c.options = append(c.options, opts...)
	return c
}

// Middleware adds client middleware.  These wrap any middleware injected via
// ClientMiddlewareGroup, so they see each request first.
func (c *C) Middleware(m ...RoundTripperConstructor) *C {
	c.middleware = append(c.middleware, m...)
	return c
}

func (c *C) newClient(cc ClientConfig, in ClientIn) (*Client, error) {
	var opts ClientOptions
	if m := append(append([]RoundTripperConstructor{}, c.middleware...), in.Middleware...); len(m) > 0 {
		opts = append(opts, ClientMiddleware(m...))
	}

	client, err := cc.NewClient(append(opts, c.options...)...)
	if err != nil {
		return nil, fmt.Errorf("client: %w", err)
	}

	if in.Logger != nil {
		in.Logger.Info(
			"client created",
			zap.Duration("timeout", cc.Timeout),
			zap.Stringer("responseEncoding", cc.ResponseEncoding),
			zap.String("baseAddress", cc.BaseAddress),
		)
	}

	return client, nil
}

// configError marks an unmarshaling failure with rmagui.ConfigurationExitCode
func configError(err error) error {
	return rmagui.UseExitCode(err, rmagui.ConfigurationExitCode)
}

// Unmarshal terminates the builder chain and returns an fx constructor that
// unmarshals the client configuration from the configuration root.
func (c *C) Unmarshal() func(ClientIn) (*Client, error) {
	return func(in ClientIn) (*Client, error) {
		cc := c.prototype
		if err := in.Unmarshaler.Unmarshal(&cc); err != nil {
			return nil, configError(err)
		}

		return c.newClient(cc, in)
	}
}

// UnmarshalKey is like Unmarshal, but reads the client configuration from key.
func (c *C) UnmarshalKey(key string) func(ClientIn) (*Client, error) {
	return func(in ClientIn) (*Client, error) {
		cc := c.prototype
		if err := in.Unmarshaler.UnmarshalKey(key, &cc); err != nil {
			return nil, configError(fmt.Errorf("%s: %w", key, err))
		}

		return c.newClient(cc, in)
	}
}

// Provide produces an unnamed *Client component from the configuration root.
func (c *C) Provide() fx.Option {
	return fx.Provide(c.Unmarshal())
}

// ProvideKey produces a *Client component unmarshaled from key and named after it.
func (c *C) ProvideKey(key string) fx.Option {
	return fx.Provide(
		fx.Annotated{
			Name:   key,
			Target: c.UnmarshalKey(key),
		},
	)
}
