package rmagui

import (
	"encoding"
	"reflect"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Exact sets the DecoderConfig.ErrorUnused flag, so that configuration keys
// with no corresponding struct field are reported as errors.
//
// This:
//
//	v.UnmarshalExact(config)
//
// is the same as this:
//
//	v.Unmarshal(config, rmagui.Exact)
func Exact(dc *mapstructure.DecoderConfig) {
	dc.ErrorUnused = true
}

// Merge takes any number of slices of decoder options and merges them
// into a single option, applied in order.
func Merge(opts ...[]viper.DecoderConfigOption) viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		for _, group := range opts {
			for _, o := range group {
				o(dc)
			}
		}
	}
}

// DefaultDecodeHooks is a viper option that sets the decode hooks used throughout
// this module:  durations, comma-separated slices, and any type implementing
// encoding.TextUnmarshaler (e.g. rmahttp.ResponseEncoding).
//
// Note that you can still use ComposeDecodeHooks with this option as long as you use
// it after this one.
func DefaultDecodeHooks(dc *mapstructure.DecoderConfig) {
	dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
		TextUnmarshalerHookFunc,
	)
}

// ComposeDecodeHooks adds more decode hook functions to mapstructure's DecoderConfig.  If
// there are already decode hooks, they are preserved and the given hooks are appended.
func ComposeDecodeHooks(fs ...mapstructure.DecodeHookFunc) viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		if dc.DecodeHook != nil {
			dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
				append([]mapstructure.DecodeHookFunc{dc.DecodeHook},
					fs...,
				)...,
			)
		} else {
			dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(fs...)
		}
	}
}

var (
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
)

// TextUnmarshalerHookFunc is a mapstructure.DecodeHookFunc that honors the destination
// type's encoding.TextUnmarshaler implementation.  The src parameter must be a string,
// or else this function does not attempt any conversion.
//
// Two destination shapes are supported:  a non-pointer T where *T implements
// encoding.TextUnmarshaler, and a pointer *T that implements it directly.
// Deeper indirection is left alone.
func TextUnmarshalerHookFunc(_, to reflect.Type, src any) (any, error) {
	text, ok := src.(string)
	if !ok {
		return src, nil
	}

	switch {
	case to.Kind() != reflect.Ptr && reflect.PointerTo(to).Implements(textUnmarshalerType):
		ptr := reflect.New(to)
		err := ptr.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(text))
		return ptr.Elem().Interface(), err

	case to.Kind() == reflect.Ptr && to.Elem().Kind() != reflect.Ptr && to.Implements(textUnmarshalerType):
		ptr := reflect.New(to.Elem())
		tu := ptr.Interface().(encoding.TextUnmarshaler)
		err := tu.UnmarshalText([]byte(text))
		return tu, err
	}

	return src, nil
}
