package rmapprof

import (
	"net/http/pprof"
	rpprof "runtime/pprof"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// DefaultPathPrefix is the path prefix for the pprof handlers when none is configured
const DefaultPathPrefix = "/debug/pprof"

// ConfigureRoutes adds the pprof routes to r, which is normally a subrouter:
//
//	ConfigureRoutes(router.PathPrefix("/debug/pprof/").Subrouter())
//
// The prefix itself, with no trailing slash, is not handled here.  Mount
// does that.
func ConfigureRoutes(r *mux.Router) {
	r.Path("/").HandlerFunc(pprof.Index)
	r.Path("/cmdline").HandlerFunc(pprof.Cmdline)
	r.Path("/profile").HandlerFunc(pprof.Profile)
	r.Path("/symbol").HandlerFunc(pprof.Symbol)
	r.Path("/trace").HandlerFunc(pprof.Trace)

	// gorilla/mux matches exactly, so each named profile needs its own route
	for _, p := range rpprof.Profiles() {
		r.Path("/" + p.Name()).HandlerFunc(pprof.Index)
	}
}

// Mount binds the pprof handlers under prefix and returns the normalized
// prefix.  An empty prefix means DefaultPathPrefix, and "/" binds them to
// the root.
func Mount(r *mux.Router, prefix string) string {
	if len(prefix) == 0 {
		prefix = DefaultPathPrefix
	}

	prefix = strings.TrimRight(prefix, "/")
	r.HandleFunc(prefix, pprof.Index)
	ConfigureRoutes(r.PathPrefix(prefix + "/").Subrouter())
	return prefix
}

// HTTP mounts the pprof handlers on a *mux.Router component.
type HTTP struct {
	// PathPrefix is passed to Mount
	PathPrefix string

	// RouterName is the component name of the *mux.Router.  If unset, the
	// unnamed router is used.
	RouterName string
}

// Provide returns the fx.Invoke that mounts the handlers.
func (h HTTP) Provide() fx.Option {
	var routerTag string
	if len(h.RouterName) > 0 {
		routerTag = `name:"` + h.RouterName + `"`
	}

	return fx.Invoke(
		fx.Annotate(
			func(r *mux.Router, logger *zap.Logger) {
				prefix := Mount(r, h.PathPrefix)
				if logger != nil {
					logger.Info("pprof handlers mounted", zap.String("prefix", prefix))
				}
			},
			fx.ParamTags(routerTag, `optional:"true"`),
		),
	)
}
