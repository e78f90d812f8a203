package rmahttp

import (
	"net/http"

	"github.com/iccolo/rmagui/internal/rmareflect"
)

// RoundTripperFunc is a function type that implements http.RoundTripper.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

// RoundTrip implements http.RoundTripper
func (rtf RoundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return rtf(r)
}

// RoundTripperConstructor is a strategy for decorating an http.RoundTripper.
// Request logging and metrics are built this way.
type RoundTripperConstructor func(http.RoundTripper) http.RoundTripper

// RoundTripperChain is an immutable sequence of RoundTripperConstructors.  The zero
// value is a valid, empty chain that will not decorate anything.
type RoundTripperChain struct {
	c []RoundTripperConstructor
}

// NewRoundTripperChain creates a chain from a sequence of constructors.  The constructors
// are always applied in the order presented here.
func NewRoundTripperChain(c ...RoundTripperConstructor) RoundTripperChain {
	return RoundTripperChain{
		c: append([]RoundTripperConstructor{}, c...),
	}
}

// Append returns a new chain with more added to the end.  This chain is not
// modified.  If more has zero length, this chain is returned.
func (rtc RoundTripperChain) Append(more ...RoundTripperConstructor) RoundTripperChain {
	if len(more) > 0 {
		return RoundTripperChain{
			c: append(
				append([]RoundTripperConstructor{}, rtc.c...),
				more...,
			),
		}
	}

	return rtc
}

// Extend is like Append, except that the additional constructors come from
// another chain
func (rtc RoundTripperChain) Extend(more RoundTripperChain) RoundTripperChain {
	return rtc.Append(more.c...)
}

// Len returns the number of constructors in this chain
func (rtc RoundTripperChain) Len() int {
	return len(rtc.c)
}

// Then decorates next with every constructor in this chain.  The first
// constructor is the outermost, so it sees each request first.  A nil next
// means http.DefaultTransport.  An empty chain returns next unchanged, even if nil.
func (rtc RoundTripperChain) Then(next http.RoundTripper) http.RoundTripper {
	if len(rtc.c) > 0 {
		next = rmareflect.Decorate(
			rmareflect.Safe[http.RoundTripper](next, http.DefaultTransport),
			rtc.c...,
		)
	}

	return next
}
