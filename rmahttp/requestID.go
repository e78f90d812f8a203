package rmahttp

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// RequestIDHeader carries the request ID on both server responses and
// outbound backend requests.
const RequestIDHeader = "X-Request-Id"

type requestIDKey struct{}

// WithRequestID returns a context carrying id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the request ID carried by ctx, if any.
func RequestID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey{}).(string)
	return id, ok && len(id) > 0
}

// AssignRequestID is server middleware that gives every request an ID.  An ID
// supplied by the caller in RequestIDHeader is kept, otherwise a random UUID is
// generated.  The ID is echoed on the response and stored in the request context.
func AssignRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(response http.ResponseWriter, request *http.Request) {
		id := request.Header.Get(RequestIDHeader)
		if len(id) == 0 {
			id = uuid.NewString()
		}

		response.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(response, request.WithContext(WithRequestID(request.Context(), id)))
	})
}

// PropagateRequestID is a RoundTripperConstructor that copies the request ID
// from an outbound request's context into RequestIDHeader, so backend logs can
// be correlated with the page request that caused them.
func PropagateRequestID(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}

	return RoundTripperFunc(func(request *http.Request) (*http.Response, error) {
		id, ok := RequestID(request.Context())
		if !ok || len(request.Header.Get(RequestIDHeader)) > 0 {
			return next.RoundTrip(request)
		}

		clone := request.Clone(request.Context())
		clone.Header.Set(RequestIDHeader, id)
		return next.RoundTrip(clone)
	})
}
