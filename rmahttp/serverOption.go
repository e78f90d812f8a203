package rmahttp

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"
)

// ServerOption is a functional option that tailors the *http.Server.
type ServerOption func(*http.Server) error

// ServerOptions binds several options into one.
func ServerOptions(o ...ServerOption) ServerOption {
	if len(o) == 1 {
		return o[0]
	}

	return func(server *http.Server) error {
		for _, f := range o {
			if err := f(server); err != nil {
				return err
			}
		}

		return nil
	}
}

// RouterOption is a functional option that tailors the *mux.Router.
type RouterOption func(*mux.Router) error

// RouterOptions binds several options into one.
func RouterOptions(o ...RouterOption) RouterOption {
	if len(o) == 1 {
		return o[0]
	}

	return func(router *mux.Router) error {
		for _, f := range o {
			if err := f(router); err != nil {
				return err
			}
		}

		return nil
	}
}

// ServerMiddlewareChain is a strategy for decorating an http.Handler.
// alice.Chain implements this interface.
type ServerMiddlewareChain interface {
	Then(http.Handler) http.Handler
}

// ErrorLog defines a ServerOption that sets http.Server.ErrorLog.
func ErrorLog(l *log.Logger) ServerOption {
	return func(s *http.Server) error {
		s.ErrorLog = l
		return nil
	}
}

// sOption is the internal option type used to configure an http.Server, its
// associated mux.Router, and any listener decoration.
type sOption func(*http.Server, *mux.Router, ListenChain) (ListenChain, error)

func (so ServerOption) sOption(server *http.Server, _ *mux.Router, lc ListenChain) (ListenChain, error) {
	return lc, so(server)
}

func (ro RouterOption) sOption(_ *http.Server, router *mux.Router, lc ListenChain) (ListenChain, error) {
	return lc, ro(router)
}
