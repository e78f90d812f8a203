package rmahttp

import (
	"context"
	"crypto/tls"
	"net"
	"net/http"

	"github.com/iccolo/rmagui/internal/rmareflect"
	"go.uber.org/fx"
)

// Listen is a closure factory for net.Listener instances.  Since options may
// have changed the http.Server, this strategy is passed that server instance.
//
// The http.Server.Addr field is the listen address.  If the server has a
// tls.Config, the returned listener accepts TLS connections with it.
type Listen func(context.Context, *http.Server) (net.Listener, error)

// ListenConstructor is a decorator for Listen closures.
type ListenConstructor func(Listen) Listen

// ListenChain is an immutable sequence of ListenConstructors.  The zero value
// is a valid, empty chain.
type ListenChain struct {
	c []ListenConstructor
}

// NewListenChain creates a chain from a sequence of constructors, applied in
// the order presented here.
func NewListenChain(c ...ListenConstructor) ListenChain {
	return ListenChain{
		c: append([]ListenConstructor{}, c...),
	}
}

// Append returns a new chain with more added to the end.
func (lc ListenChain) Append(more ...ListenConstructor) ListenChain {
	if len(more) > 0 {
		return ListenChain{
			c: append(
				append([]ListenConstructor{}, lc.c...),
				more...,
			),
		}
	}

	return lc
}

// Then decorates next with all of this chain's constructors.
func (lc ListenChain) Then(next Listen) Listen {
	return rmareflect.Decorate(next, lc.c...)
}

// CaptureAddr returns a ListenConstructor that sends the actual network address of
// the created listener to a channel.  This is useful to capture the actual address
// of a server, usually for testing, when an address such as ":0" is used.
func CaptureAddr(ch chan<- net.Addr) ListenConstructor {
	return func(next Listen) Listen {
		return func(ctx context.Context, server *http.Server) (net.Listener, error) {
			listener, err := next(ctx, server)
			if err == nil {
				ch <- listener.Addr()
			}

			return listener, err
		}
	}
}

// ListenerFactory is a configurable factory for net.Listener instances.
type ListenerFactory struct {
	// ListenConfig is the object used to create the net.Listener
	ListenConfig net.ListenConfig

	// Network is the network to listen on, which must always be a TCP network.
	// If not set, "tcp" is used.
	Network string
}

// Listen creates a net.Listener using this factory's configuration.  It is
// assignable to the Listen type.
func (lf ListenerFactory) Listen(ctx context.Context, server *http.Server) (net.Listener, error) {
	network := lf.Network
	if len(network) == 0 {
		network = "tcp"
	}

	l, err := lf.ListenConfig.Listen(ctx, network, server.Addr)
	if err != nil {
		return nil, err
	}

	if server.TLSConfig != nil {
		l = tls.NewListener(l, server.TLSConfig)
	}

	return l, nil
}

// ServerExit is a callback run when a server exits its accept loop
type ServerExit func()

// ShutdownOnExit returns a ServerExit that stops the enclosing fx.App, so that
// a server whose accept loop dies takes the application down with it.
func ShutdownOnExit(shutdowner fx.Shutdowner, opts ...fx.ShutdownOption) ServerExit {
	return func() {
		shutdowner.Shutdown(opts...)
	}
}

// Serve executes the given server's accept loop using the supplied net.Listener,
// calling each onExit when the loop returns.
func Serve(s *http.Server, l net.Listener, onExit ...ServerExit) error {
	defer func() {
		for _, f := range onExit {
			f()
		}
	}()

	return s.Serve(l)
}

// ServerOnStart returns an fx.Hook OnStart closure that starts the given server's
// accept loop in a goroutine.
func ServerOnStart(s *http.Server, l Listen, onExit ...ServerExit) func(context.Context) error {
	return func(ctx context.Context) error {
		listener, err := l(ctx, s)
		if err != nil {
			return err
		}

		go Serve(s, listener, onExit...) //nolint:errcheck
		return nil
	}
}
