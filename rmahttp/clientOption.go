package rmahttp

import (
	"net/http"
	"reflect"

	"go.uber.org/multierr"
)

// InvalidClientOptionTypeError is returned by a ClientOption produced by AsClientOption
// to indicate that a type could not be converted.
type InvalidClientOptionTypeError struct {
	Type reflect.Type
}

// Error describes the type that could not be converted.
func (icote *InvalidClientOptionTypeError) Error() string {
	if icote.Type == nil {
		return "nil cannot be converted to a ClientOption"
	}

	return icote.Type.String() + " cannot be converted to a ClientOption"
}

// ClientOption is a general-purpose modifier for the *http.Client underlying
// a Client.
type ClientOption interface {
	// Apply modifies the given client.
	Apply(*http.Client) error
}

// ClientOptionFunc is a function type that implements ClientOption.
type ClientOptionFunc func(*http.Client) error

// Apply implements ClientOption.
func (cof ClientOptionFunc) Apply(c *http.Client) error {
	return cof(c)
}

// ClientOptions is an aggregate set of ClientOption that acts as a single option.
type ClientOptions []ClientOption

// Apply invokes each option in order.  Every option runs even when earlier
// ones fail; the errors are aggregated with multierr.
func (co ClientOptions) Apply(c *http.Client) (err error) {
	for _, o := range co {
		err = multierr.Append(err, o.Apply(c))
	}

	return
}

// Add appends options to this slice after converting each with AsClientOption.
func (co *ClientOptions) Add(opts ...any) {
	for _, o := range opts {
		*co = append(*co, AsClientOption(o))
	}
}

// AsClientOption converts a value into a ClientOption.  This function never returns nil.
//
// These kinds of values can be converted:
//   - any type that implements ClientOption
//   - an underlying type of func(*http.Client) error
//   - an underlying type of func(*http.Client)
//
// Any other value results in a ClientOption that returns an *InvalidClientOptionTypeError.
func AsClientOption(v any) ClientOption {
	switch o := v.(type) {
	case ClientOption:
		return o

	case func(*http.Client) error:
		return ClientOptionFunc(o)

	case func(*http.Client):
		return ClientOptionFunc(func(c *http.Client) error {
			o(c)
			return nil
		})
	}

	return ClientOptionFunc(func(_ *http.Client) error {
		return &InvalidClientOptionTypeError{
			Type: reflect.TypeOf(v),
		}
	})
}

// ClientMiddleware returns a ClientOption that decorates the client's transport
// with the given constructors, applied in order.
func ClientMiddleware(ctors ...RoundTripperConstructor) ClientOption {
	return ClientOptionFunc(func(c *http.Client) error {
		c.Transport = NewRoundTripperChain(ctors...).Then(c.Transport)
		return nil
	})
}
