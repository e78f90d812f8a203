package main

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/iccolo/rmagui"
	"github.com/iccolo/rmagui/rmaapi"
	"github.com/iccolo/rmagui/rmahttp"
	"github.com/iccolo/rmagui/rmapprof"
	"github.com/iccolo/rmagui/rmaroute"
	"github.com/iccolo/rmagui/rmaview"
	"github.com/justinas/alice"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/viper"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Component names of the client and server, which are also their configuration keys
const (
	clientKey = "client"
	serverKey = "server"
)

func newRegistry() *prometheus.Registry {
	r := prometheus.NewRegistry()
	r.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return r
}

func newClientMetrics(r *prometheus.Registry) (*rmahttp.ClientMetrics, error) {
	return rmahttp.NewClientMetrics(r)
}

// RoutesIn holds what mountRoutes needs to finish the server's router.
type RoutesIn struct {
	fx.In

	Router   *mux.Router `name:"server"`
	Registry *rmaroute.Registry
	Views    *rmaview.Set
	API      rmaapi.API
	Logger   *zap.Logger
}

// mountRoutes binds the route table, the analyze form handler, and the 404
// view to the server's router, then gives the views their navigation links.
func mountRoutes(in RoutesIn) error {
	if err := in.Registry.Mount(in.Router); err != nil {
		return err
	}

	links, err := in.Views.NavLinks(in.Router, in.Registry.Routes()...)
	if err != nil {
		return err
	}

	in.Views.SetNav(links...)

	dashboard := rmaroute.RMAPath
	if route, ok := in.Registry.LookupName(rmaroute.RMAName); ok {
		dashboard = route.Path
	}

	in.Router.Handle(rmaview.AnalyzePath, rmaview.AnalyzeHandler(in.API, in.Logger, dashboard)).
		Methods(http.MethodPost).
		Name("Analyze")

	in.Router.NotFoundHandler = in.Views.NotFound()
	return nil
}

// MetricsIn holds what mountMetrics needs.
type MetricsIn struct {
	fx.In

	Router   *mux.Router `name:"server"`
	Registry *prometheus.Registry
}

func mountMetrics(path string) func(MetricsIn) {
	return func(in MetricsIn) {
		in.Router.Handle(path, promhttp.HandlerFor(in.Registry, promhttp.HandlerOpts{})).
			Methods(http.MethodGet).
			Name("metrics")
	}
}

// options assembles the application.  Settings that decide the shape of the
// graph are read from v here; everything else is unmarshaled by components.
// The listen constructors decorate the server's listener.
func options(v *viper.Viper, logger *zap.Logger, listen ...rmahttp.ListenConstructor) ([]fx.Option, error) {
	var (
		mc MetricsConfig
		pc rmapprof.Config
	)

	if err := v.UnmarshalKey("metrics", &mc, rmagui.DefaultDecodeHooks); err != nil {
		return nil, rmagui.UseExitCode(err, rmagui.ConfigurationExitCode)
	}

	if err := v.UnmarshalKey("pprof", &pc, rmagui.DefaultDecodeHooks); err != nil {
		return nil, rmagui.UseExitCode(err, rmagui.ConfigurationExitCode)
	}

	return []fx.Option{
		rmagui.Logger(logger),
		rmagui.ForViper(v, rmagui.DefaultDecodeHooks),
		fx.Provide(
			newRegistry,
			newClientMetrics,
			fx.Annotated{
				Group: rmahttp.ClientMiddlewareGroup,
				Target: func(cm *rmahttp.ClientMetrics) rmahttp.RoundTripperConstructor {
					return cm.Then
				},
			},
			fx.Annotate(
				rmaapi.New,
				fx.ParamTags(`name:"client"`, `optional:"true"`),
				fx.As(new(rmaapi.API)),
			),
		),
		rmahttp.NewClientBuilder().
			Middleware(rmahttp.LogRequests(logger), rmahttp.PropagateRequestID).
			ProvideKey(clientKey),
		rmaview.Provide(),
		rmaroute.Provide(rmaroute.Entries()...),
		rmahttp.Server().
			MiddlewareChain(alice.New(rmahttp.AssignRequestID, rmahttp.AccessLog(logger))).
			ListenConstructors(listen...).
			ProvideKey(serverKey),
		fx.Invoke(mountRoutes),
		rmagui.If(mc.Enabled).Then(
			fx.Invoke(mountMetrics(mc.Path)),
		),
		pc.Provide(serverKey),
	}, nil
}
