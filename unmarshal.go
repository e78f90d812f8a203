package rmagui

import (
	"fmt"

	"go.uber.org/fx"
)

// UnmarshalIn is the set of dependencies for all UnmarshalXXX functions in this package
type UnmarshalIn struct {
	fx.In

	// Unmarshaler is the required configuration source, usually supplied by ForViper
	Unmarshaler Unmarshaler
}

// Unmarshal returns a constructor that produces a T unmarshaled from the root
// of the configuration.  The prototype is copied for each invocation and
// serves as the default value, so fields absent from configuration keep the
// prototype's values.
//
// For example:
//
//	fx.New(
//	  rmagui.ForViper(v),
//	  fx.Provide(
//	    rmagui.Unmarshal(Config{Port: 8080}),
//	  ),
//	)
func Unmarshal[T any](prototype T) func(UnmarshalIn) (T, error) {
	return func(in UnmarshalIn) (T, error) {
		target := prototype
		if err := in.Unmarshaler.Unmarshal(&target); err != nil {
			return target, fmt.Errorf("unmarshal %T: %w", target, err)
		}

		return target, nil
	}
}

// UnmarshalKey is like Unmarshal, but reads from a single configuration key.
// When the key is absent, the prototype is returned as is.
func UnmarshalKey[T any](key string, prototype T) func(UnmarshalIn) (T, error) {
	return func(in UnmarshalIn) (T, error) {
		target := prototype
		if err := in.Unmarshaler.UnmarshalKey(key, &target); err != nil {
			return target, fmt.Errorf("unmarshal key %s: %w", key, err)
		}

		return target, nil
	}
}

// ProvideKey is syntactic sugar for a very common use case:  unmarshaling a component from a key
// and naming that component the same as the key.
//
// This:
//
//	fx.Provide(
//	  fx.Annotated{
//	    Name:   "client",
//	    Target: rmagui.UnmarshalKey("client", rmahttp.DefaultClientConfig()),
//	  },
//	)
//
// is the same as:
//
//	rmagui.ProvideKey("client", rmahttp.DefaultClientConfig())
func ProvideKey[T any](key string, prototype T) fx.Option {
	return fx.Provide(
		fx.Annotated{
			Name:   key,
			Target: UnmarshalKey(key, prototype),
		},
	)
}

func typeName(v any) string {
	return fmt.Sprintf("%T", v)
}
