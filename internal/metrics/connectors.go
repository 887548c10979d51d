package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// ConnectorCollector records outcomes of upstream connector traffic, one
// series per connector type, operation, and outcome.
type ConnectorCollector struct {
	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewConnectorCollector constructs a collector registered on the given
// registry.
func NewConnectorCollector(registry *prometheus.Registry) (*ConnectorCollector, error) {
	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "baykus",
		Subsystem: "connectors",
		Name:      "requests_total",
		Help:      "Total number of upstream connector operations.",
	}, []string{"connector_type", "operation", "outcome"})

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "baykus",
		Subsystem: "connectors",
		Name:      "request_duration_seconds",
		Help:      "Latency distribution for upstream connector operations.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"connector_type", "operation"})

	if err := registry.Register(requestTotal); err != nil {
		return nil, err
	}

	if err := registry.Register(requestDuration); err != nil {
		return nil, err
	}

	return &ConnectorCollector{
		requestTotal:    requestTotal,
		requestDuration: requestDuration,
	}, nil
}

// ObserveRequest records one connector operation.
func (c *ConnectorCollector) ObserveRequest(connectorType, operation, outcome string, seconds float64) {
	c.requestTotal.WithLabelValues(connectorType, operation, outcome).Inc()
	c.requestDuration.WithLabelValues(connectorType, operation).Observe(seconds)
}
