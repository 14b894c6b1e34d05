// Package metrics collects client-side request metrics so a host process can
// expose them alongside its own Prometheus registry.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder is what the HTTP client reports into. The Nop recorder satisfies
// it for hosts that don't run Prometheus.
type Recorder interface {
	RecordRequest(statusCode int, duration time.Duration)
	RecordNetworkFailure()
	RecordRefresh(success bool)
}

// Collector is the Prometheus-backed Recorder.
type Collector struct {
	requests       *prometheus.CounterVec
	requestLatency prometheus.Histogram
	networkFail    prometheus.Counter
	refreshes      *prometheus.CounterVec
}

var _ Recorder = (*Collector)(nil)

// NewCollector registers the client's metrics on reg and returns the
// collector.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "travelclient_requests_total",
			Help: "API requests by HTTP status code",
		}, []string{"status_code"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "travelclient_request_latency_seconds",
			Help:    "API request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		networkFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "travelclient_network_failures_total",
			Help: "Requests that produced no HTTP response",
		}),
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "travelclient_token_refreshes_total",
			Help: "Token refresh attempts by outcome",
		}, []string{"outcome"}),
	}
	reg.MustRegister(c.requests, c.requestLatency, c.networkFail, c.refreshes)
	return c
}

func (c *Collector) RecordRequest(statusCode int, duration time.Duration) {
	c.requests.WithLabelValues(strconv.Itoa(statusCode)).Inc()
	c.requestLatency.Observe(duration.Seconds())
}

func (c *Collector) RecordNetworkFailure() {
	c.networkFail.Inc()
}

func (c *Collector) RecordRefresh(success bool) {
	outcome := "failure"
	if success {
		outcome = "success"
	}
	c.refreshes.WithLabelValues(outcome).Inc()
}

// Nop discards every observation.
type Nop struct{}

var _ Recorder = Nop{}

func (Nop) RecordRequest(int, time.Duration) {}
func (Nop) RecordNetworkFailure()            {}
func (Nop) RecordRefresh(bool)               {}
