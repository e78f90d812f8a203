package rmahttp

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// LogRequests returns a RoundTripperConstructor that logs each outbound request
// at debug level, and each failure at error level.
func LogRequests(logger *zap.Logger) RoundTripperConstructor {
	return func(next http.RoundTripper) http.RoundTripper {
		if next == nil {
			next = http.DefaultTransport
		}

		return RoundTripperFunc(func(request *http.Request) (*http.Response, error) {
			start := time.Now()
			response, err := next.RoundTrip(request)
			fields := []zap.Field{
				zap.String("method", request.Method),
				zap.String("url", request.URL.String()),
				zap.Duration("duration", time.Since(start)),
			}

			if err != nil {
				logger.Error("client request failed", append(fields, zap.Error(err))...)
			} else {
				logger.Debug("client request", append(fields, zap.Int("status", response.StatusCode))...)
			}

			return response, err
		})
	}
}

// statusRecorder captures the status code written by a handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(status int) {
	sr.status = status
	sr.ResponseWriter.WriteHeader(status)
}

// AccessLog returns server middleware that logs each request at info level.
// When AssignRequestID runs before it, the entry includes the request ID.
func AccessLog(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(response http.ResponseWriter, request *http.Request) {
			var (
				start    = time.Now()
				recorder = &statusRecorder{ResponseWriter: response, status: http.StatusOK}
			)

			next.ServeHTTP(recorder, request)
			fields := []zap.Field{
				zap.String("method", request.Method),
				zap.String("path", request.URL.Path),
				zap.Int("status", recorder.status),
				zap.Duration("duration", time.Since(start)),
			}

			if id := response.Header().Get(RequestIDHeader); len(id) > 0 {
				fields = append(fields, zap.String("requestID", id))
			}

			logger.Info("request", fields...)
		})
	}
}
