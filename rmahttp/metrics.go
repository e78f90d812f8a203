package rmahttp

import (
	"net/http"

	"github.com/iccolo/rmagui/internal/rmareflect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	// ClientRequestsName is the name of the counter of outbound requests
	ClientRequestsName = "rmagui_client_requests_total"

	// ClientDurationName is the name of the histogram of outbound request durations
	ClientDurationName = "rmagui_client_request_duration_seconds"
)

// ClientMetrics instruments the client facade's outbound requests.
type ClientMetrics struct {
	Requests *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

// NewClientMetrics creates the client collectors and registers them with r.
func NewClientMetrics(r prometheus.Registerer) (*ClientMetrics, error) {
	cm := &ClientMetrics{
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: ClientRequestsName,
				Help: "Total number of requests issued by the RMA API client",
			},
			[]string{"code", "method"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    ClientDurationName,
				Help:    "Duration of requests issued by the RMA API client",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"code", "method"},
		),
	}

	if err := r.Register(cm.Requests); err != nil {
		return nil, err
	}

	if err := r.Register(cm.Duration); err != nil {
		return nil, err
	}

	return cm, nil
}

// Then is a RoundTripperConstructor that records every request.
func (cm *ClientMetrics) Then(next http.RoundTripper) http.RoundTripper {
	next = rmareflect.Safe(next, http.DefaultTransport)
	return promhttp.InstrumentRoundTripperCounter(
		cm.Requests,
		promhttp.InstrumentRoundTripperDuration(cm.Duration, next),
	)
}
