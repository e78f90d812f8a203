package rmahttp

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/iccolo/rmagui"
	"github.com/iccolo/rmagui/rmatls"
	"github.com/xmidt-org/httpaux"
	httpauxserver "github.com/xmidt-org/httpaux/server"
	"go.uber.org/fx"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// ServerMiddlewareGroup is the fx value group from which server builders collect
// additional handler middleware.
const ServerMiddlewareGroup = "server.middleware"

// ServerConfig holds the unmarshaled configuration of an http.Server together
// with the listener it accepts on.
type ServerConfig struct {
	// Network is the tcp network to listen on.  The default is "tcp".
	Network string

	// Address is the bind address of the server.  If unset, the server binds to
	// the first port available.  In that case, CaptureListenAddress can be used
	// to obtain the bind address for the server.
	Address string

	// ReadTimeout corresponds to http.Server.ReadTimeout
	ReadTimeout time.Duration

	// ReadHeaderTimeout corresponds to http.Server.ReadHeaderTimeout
	ReadHeaderTimeout time.Duration

	// WriteTimeout corresponds to http.Server.WriteTimeout
	WriteTimeout time.Duration

	// IdleTimeout corresponds to http.Server.IdleTimeout
	IdleTimeout time.Duration

	// MaxHeaderBytes corresponds to http.Server.MaxHeaderBytes
	MaxHeaderBytes int

	// KeepAlive corresponds to net.ListenConfig.KeepAlive
	KeepAlive time.Duration

	// Header supplies HTTP headers to emit on every response from this server
	Header http.Header

	// TLS is the optional TLS configuration.  If set, the server uses HTTPS.
	TLS *rmatls.Config
}

// NewServer creates an http.Server that serves h, writing the configured
// response headers first.
func (sc ServerConfig) NewServer(h http.Handler) (server *http.Server, err error) {
	header := httpaux.NewHeader(sc.Header)

	server = &http.Server{
		Addr:              sc.Address,
		Handler:           httpauxserver.Header(header.SetTo)(h),
		ReadTimeout:       sc.ReadTimeout,
		ReadHeaderTimeout: sc.ReadHeaderTimeout,
		WriteTimeout:      sc.WriteTimeout,
		IdleTimeout:       sc.IdleTimeout,
		MaxHeaderBytes:    sc.MaxHeaderBytes,
	}

	server.TLSConfig, err = sc.TLS.New()
	return
}

// Listen creates the server's net.Listener.  It is assignable to Listen.
func (sc ServerConfig) Listen(ctx context.Context, s *http.Server) (net.Listener, error) {
	return ListenerFactory{
		ListenConfig: net.ListenConfig{
			KeepAlive: sc.KeepAlive,
		},
		Network: sc.Network,
	}.Listen(ctx, s)
}

// ServerIn describes the set of dependencies for creating a mux.Router and,
// by extension, an http.Server.
type ServerIn struct {
	fx.In

	// Unmarshaler is the required configuration source
	Unmarshaler rmagui.Unmarshaler

	// Logger is the optional logger used to report the server's lifecycle
	Logger *zap.Logger `optional:"true"`

	// Lifecycle is the required uber/fx Lifecycle to which the server will be bound.
	// The server will start with the app starts and will gracefully shutdown when
	// the app is stopped.
	Lifecycle fx.Lifecycle

	// Shutdowner is used to guarantee that any server which aborts its accept loop
	// will stop the entire app.
	Shutdowner fx.Shutdowner

	// Middleware is handler middleware supplied elsewhere in the enclosing fx.App.
	// It is applied after any middleware on the builder.
	Middleware []func(http.Handler) http.Handler `group:"server.middleware"`
}

// S is a Fluent Builder for unmarshaling an http.Server.  This type must be
// created with the Server function.
type S struct {
	prototype ServerConfig
	options   []sOption
}

// Server starts a Fluent Builder method chain for creating an http.Server,
// binding its lifecycle to the fx.App lifecycle, and producing a *mux.Router
// as a component for use in dependency injection.
func Server() *S {
	return new(S)
}

// Prototype sets the configuration that unmarshaling starts from.
func (s *S) Prototype(sc ServerConfig) *S {
	s.prototype = sc
	return s
}

// With adds functional options that tailor the *http.Server supplied by
// this builder chain.
func (s *S) With(o ...ServerOption) *S {
	s.options = append(
		s.options,
		ServerOptions(o...).sOption,
	)

	return s
}

// WithRouter adds functional options that tailor the *mux.Router supplied
// by this builder chain.
func (s *S) WithRouter(o ...RouterOption) *S {
	s.options = append(
		s.options,
		RouterOptions(o...).sOption,
	)

	return s
}

// Middleware is a shorthand for a RouterOption that adds several middlewares
// to the *mux.Router being built.  As with any mux middleware, these run only
// for requests that match a route.
func (s *S) Middleware(m ...func(http.Handler) http.Handler) *S {
	return s.WithRouter(func(router *mux.Router) error {
		for _, f := range m {
			router.Use(f)
		}

		return nil
	})
}

// MiddlewareChain decorates the server's whole handler with a chain of
// middleware, such as an alice.Chain.  Unlike Middleware, the chain sees every
// request, including those answered by the router's 404 and 405 handlers.
// Each call wraps the chains added before it.
func (s *S) MiddlewareChain(smc ServerMiddlewareChain) *S {
	return s.With(func(server *http.Server) error {
		server.Handler = smc.Then(server.Handler)
		return nil
	})
}

// ListenConstructors adds decorators for the listener used to accept
// traffic for this server.
func (s *S) ListenConstructors(l ...ListenConstructor) *S {
	s.options = append(
		s.options,
		func(_ *http.Server, _ *mux.Router, lc ListenChain) (ListenChain, error) {
			return lc.Append(l...), nil
		},
	)

	return s
}

// CaptureListenAddress decorates the server's listener so that the actual address the
// server listens on is sent to a channel when the fx.App is started.
//
// This method is primarily useful during testing when the bind address
// of the server is such that it will bind to an available port, e.g. "", ":0", "[::1]:0", etc.
func (s *S) CaptureListenAddress(ch chan<- net.Addr) *S {
	return s.ListenConstructors(
		CaptureAddr(ch),
	)
}

// newRouter creates the server and router from an unmarshaled configuration,
// applies every option, and binds the server to the fx.App lifecycle.
func (s *S) newRouter(sc ServerConfig, in ServerIn) (*mux.Router, error) {
	router := mux.NewRouter()
	server, err := sc.NewServer(router)
	if err != nil {
		return nil, configError(fmt.Errorf("server: %w", err))
	}

	var (
		lc         ListenChain
		optionErrs error
	)

	for _, o := range s.options {
		var oerr error
		if lc, oerr = o(server, router, lc); oerr != nil {
			optionErrs = multierr.Append(optionErrs, oerr)
		}
	}

	for _, m := range in.Middleware {
		router.Use(m)
	}

	if optionErrs != nil {
		return nil, optionErrs
	}

	logger := in.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	in.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("server starting", zap.String("address", server.Addr), zap.Bool("tls", server.TLSConfig != nil))
			return ServerOnStart(
				server,
				lc.Then(sc.Listen),
				ShutdownOnExit(in.Shutdowner),
			)(ctx)
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("server stopping", zap.String("address", server.Addr))
			return server.Shutdown(ctx)
		},
	})

	return router, nil
}

// Unmarshal terminates the builder chain and returns a function that produces a mux.Router.
// The *http.Server and net.Listener objects built by this function are not exposed.  However,
// both the server and listener will be bound to the lifecycle of the enclosing fx.App.
func (s *S) Unmarshal() func(ServerIn) (*mux.Router, error) {
	return func(in ServerIn) (*mux.Router, error) {
		sc := s.prototype
		if err := in.Unmarshaler.Unmarshal(&sc); err != nil {
			return nil, configError(err)
		}

		return s.newRouter(sc, in)
	}
}

// UnmarshalKey is like Unmarshal, except that it unmarshals from a particular configuration key.
func (s *S) UnmarshalKey(key string) func(ServerIn) (*mux.Router, error) {
	return func(in ServerIn) (*mux.Router, error) {
		sc := s.prototype
		if err := in.Unmarshaler.UnmarshalKey(key, &sc); err != nil {
			return nil, configError(fmt.Errorf("%s: %w", key, err))
		}

		return s.newRouter(sc, in)
	}
}

// Provide produces an unnamed *mux.Router component from the configuration root.
func (s *S) Provide() fx.Option {
	return fx.Provide(s.Unmarshal())
}

// ProvideKey produces a *mux.Router component unmarshaled from key and named after it.
func (s *S) ProvideKey(key string) fx.Option {
	return fx.Provide(
		fx.Annotated{
			Name:   key,
			Target: s.UnmarshalKey(key),
		},
	)
}
