package metrics_test

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-travel-client/internal/metrics"
)

func TestCollectorRecordsObservations(t *testing.T) {
	registry := prometheus.NewPedanticRegistry()
	collector := metrics.NewCollector(registry)

	collector.RecordRequest(200, 120*time.Millisecond)
	collector.RecordRequest(200, 80*time.Millisecond)
	collector.RecordRequest(401, 15*time.Millisecond)
	collector.RecordNetworkFailure()
	collector.RecordRefresh(true)
	collector.RecordRefresh(false)
	collector.RecordRefresh(false)

	families, err := registry.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, family := range families {
		names = append(names, family.GetName())
	}
	require.Contains(t, names, "travelclient_requests_total")
	require.Contains(t, names, "travelclient_request_latency_seconds")
	require.Contains(t, names, "travelclient_network_failures_total")
	require.Contains(t, names, "travelclient_token_refreshes_total")
}

func TestCollectorCounterValues(t *testing.T) {
	registry := prometheus.NewPedanticRegistry()
	collector := metrics.NewCollector(registry)

	collector.RecordRequest(200, time.Millisecond)
	collector.RecordRequest(500, time.Millisecond)
	collector.RecordNetworkFailure()
	collector.RecordRefresh(false)

	expected := `
# HELP travelclient_network_failures_total Requests that produced no HTTP response
# TYPE travelclient_network_failures_total counter
travelclient_network_failures_total 1
`
	require.NoError(t, testutil.GatherAndCompare(registry, strings.NewReader(expected), "travelclient_network_failures_total"))

	expected = `
# HELP travelclient_token_refreshes_total Token refresh attempts by outcome
# TYPE travelclient_token_refreshes_total counter
travelclient_token_refreshes_total{outcome="failure"} 1
`
	require.NoError(t, testutil.GatherAndCompare(registry, strings.NewReader(expected), "travelclient_token_refreshes_total"))
}

func TestNopRecorderIsSafe(t *testing.T) {
	var recorder metrics.Recorder = metrics.Nop{}
	recorder.RecordRequest(200, time.Second)
	recorder.RecordNetworkFailure()
	recorder.RecordRefresh(true)
}
