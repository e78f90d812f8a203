package rmagui

import "go.uber.org/fx"

// Conditional gates a set of fx options on a boolean decided while the
// application graph is being assembled.
type Conditional struct {
}

// Then returns all the given options if this Conditional is not nil.
// If this Conditional is nil, it returns an empty fx.Options.
func (c *Conditional) Then(o ...fx.Option) fx.Option {
	if c != nil {
		return fx.Options(o...)
	}

	return fx.Options()
}

// If returns a non-nil Conditional if its sole argument is true:
//
//	fx.New(
//	  rmagui.If(v.GetBool("pprof.enabled")).Then(
//	    fx.Invoke(func(r *mux.Router) {
//	      rmapprof.Mount(r, rmapprof.DefaultPathPrefix)
//	    }),
//	  ),
//	)
func If(f bool) *Conditional {
	if f {
		return new(Conditional)
	}

	return nil
}

// IfNot is the boolean inverse of If
func IfNot(f bool) *Conditional {
	return If(!f)
}
