package rmaroute

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/fx"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Resolver finds the handler that renders a view.
type Resolver interface {
	// Resolve returns the handler for the named view, or false if there is none.
	Resolve(view string) (http.Handler, bool)
}

// ResolverFunc is a function type that implements Resolver.
type ResolverFunc func(string) (http.Handler, bool)

// Resolve implements Resolver
func (rf ResolverFunc) Resolve(view string) (http.Handler, bool) {
	return rf(view)
}

// Route is an Entry bound to the handler of its view.
type Route struct {
	Entry
	Handler http.Handler
}

// Registry is the validated, resolved route table.  It is immutable and safe
// for concurrent use.
type Registry struct {
	routes []Route
}

// New validates entries and resolves each view.  Any problem, including a
// view the resolver does not know, is returned as one or more
// *ConfigurationErrors combined with multierr.
func New(resolver Resolver, entries ...Entry) (*Registry, error) {
	if err := Validate(entries...); err != nil {
		return nil, err
	}

	var (
		errs   []error
		routes = make([]Route, 0, len(entries))
	)

	for _, e := range entries {
		h, ok := resolver.Resolve(e.View)
		if !ok || h == nil {
			errs = append(errs, &ConfigurationError{Entry: e, Field: "view", Reason: "does not exist"})
			continue
		}

		routes = append(routes, Route{Entry: e, Handler: h})
	}

	if len(errs) > 0 {
		return nil, multierr.Combine(errs...)
	}

	return &Registry{routes: routes}, nil
}

// Len returns the number of routes
func (r *Registry) Len() int {
	return len(r.routes)
}

// Entries returns a copy of the table this registry was built from, in order.
func (r *Registry) Entries() []Entry {
	entries := make([]Entry, len(r.routes))
	for i, route := range r.routes {
		entries[i] = route.Entry
	}

	return entries
}

// Routes returns a copy of the resolved routes, in order.
func (r *Registry) Routes() []Route {
	return append([]Route{}, r.routes...)
}

// Lookup returns the route for an exact path.  When more than one route
// could match, the first in table order wins.
func (r *Registry) Lookup(path string) (Route, bool) {
	for _, route := range r.routes {
		if route.Path == path {
			return route, true
		}
	}

	return Route{}, false
}

// LookupName returns the route with the given name.
func (r *Registry) LookupName(name string) (Route, bool) {
	for _, route := range r.routes {
		if route.Name == name {
			return route, true
		}
	}

	return Route{}, false
}

// Mount registers every route with router as a named route answering GET and
// HEAD, in table order.  The route names can then be used to build URLs
// with router.Get(name).URL().
func (r *Registry) Mount(router *mux.Router) (err error) {
	for _, route := range r.routes {
		mr := router.Handle(route.Path, route.Handler).
			Methods(http.MethodGet, http.MethodHead).
			Name(route.Name)

		err = multierr.Append(err, mr.GetError())
	}

	return
}

// RegistryIn is the set of dependencies for Provide.
type RegistryIn struct {
	fx.In

	// Resolver finds the views named by the route table
	Resolver Resolver

	// Logger is the optional logger that receives the resolved table
	Logger *zap.Logger `optional:"true"`
}

// Provide produces a *Registry component built from the given entries and the
// enclosing app's Resolver.
func Provide(entries ...Entry) fx.Option {
	return fx.Provide(
		func(in RegistryIn) (*Registry, error) {
			r, err := New(in.Resolver, entries...)
			if err == nil && in.Logger != nil {
				for _, route := range r.routes {
					in.Logger.Info(
						"route",
						zap.String("path", route.Path),
						zap.String("name", route.Name),
						zap.String("view", route.View),
					)
				}
			}

			return r, err
		},
	)
}
