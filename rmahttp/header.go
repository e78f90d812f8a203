package rmahttp

import "net/http"

// emptyHeader is an internal singleton representing a blank Header
var emptyHeader = Header{}

// Header is an immutable set of HTTP headers, used to hold the configured
// request headers of a client.  The zero value is an empty Header.
//
// All header keys are stored canonicalized, and all values are deep copies.
type Header struct {
	h http.Header
}

// NewHeader makes a deep copy of the given source with each
// key filtered through http.CanonicalHeaderKey.  Empty keys and keys with no
// values are dropped.
func NewHeader(src http.Header) Header {
	if len(src) > 0 {
		cleaned := make(http.Header, len(src))
		for key, values := range src {
			if len(key) > 0 && len(values) > 0 {
				key = http.CanonicalHeaderKey(key)
				cleaned[key] = append(cleaned[key], values...)
			}
		}

		if len(cleaned) > 0 {
			return Header{h: cleaned}
		}
	}

	return emptyHeader
}

// NewHeaders builds a Header from key/value pairs.  A dangling key gets an
// empty value.
func NewHeaders(src ...string) Header {
	cleaned := make(http.Header, len(src)/2)
	for i := 0; i < len(src); i += 2 {
		if len(src[i]) == 0 {
			continue
		}

		key := http.CanonicalHeaderKey(src[i])
		if i+1 < len(src) {
			cleaned[key] = append(cleaned[key], src[i+1])
		} else {
			cleaned[key] = append(cleaned[key], "")
		}
	}

	return NewHeader(cleaned)
}

// Len returns the count of keys in this header
func (h Header) Len() int {
	return len(h.h)
}

// AddTo appends this Header's key/values to the given http.Header.
func (h Header) AddTo(dst http.Header) {
	for key, values := range h.h {
		dst[key] = append(dst[key], values...)
	}
}

// AddRequest is a RoundTripperConstructor that adds all headers to
// the request.  If this Header is empty, next is returned undecorated.
//
// The request is cloned before modification, as http.RoundTripper
// implementations must not alter the caller's request.
func (h Header) AddRequest(next http.RoundTripper) http.RoundTripper {
	if h.Len() == 0 {
		return next
	}

	if next == nil {
		next = http.DefaultTransport
	}

	return RoundTripperFunc(func(request *http.Request) (*http.Response, error) {
		clone := request.Clone(request.Context())
		if clone.Header == nil {
			clone.Header = make(http.Header, h.Len())
		}

		h.AddTo(clone.Header)
		return next.RoundTrip(clone)
	})
}
