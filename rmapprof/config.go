package rmapprof

import "go.uber.org/fx"

// Config is the externally unmarshaled profiling configuration.
type Config struct {
	// Enabled turns on the pprof HTTP handlers
	Enabled bool

	// PathPrefix is where the handlers are mounted.  Defaults to DefaultPathPrefix.
	PathPrefix string

	// CPUProfile is the optional file a CPU profile is written to
	CPUProfile string

	// HeapProfile is the optional file a heap profile is written to on shutdown
	HeapProfile string

	// Overwrite allows existing profile files to be replaced
	Overwrite bool
}

// Provide returns the options for this configuration.  The handlers are
// mounted on the *mux.Router with the given component name.  File profiles
// are independent of Enabled.
func (c Config) Provide(routerName string) fx.Option {
	options := []fx.Option{
		CPU{Path: c.CPUProfile, Overwrite: c.Overwrite}.Provide(),
		Heap{Path: c.HeapProfile, Overwrite: c.Overwrite}.Provide(),
	}

	if c.Enabled {
		options = append(options, HTTP{PathPrefix: c.PathPrefix, RouterName: routerName}.Provide())
	}

	return fx.Options(options...)
}
