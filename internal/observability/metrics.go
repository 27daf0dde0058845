package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics.
type Metrics struct {
	// Ring metrics
	BytesWritten *prometheus.CounterVec
	BytesRead    *prometheus.CounterVec
	BytesLost    *prometheus.CounterVec
	RingUsed     *prometheus.GaugeVec
	RingCapacity *prometheus.GaugeVec

	// Relay metrics
	ChunksRelayed    *prometheus.CounterVec
	ChunksDropped    *prometheus.CounterVec
	TransferDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics(registry *prometheus.Registry) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		// Ring metrics
		BytesWritten: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ring_bytes_written_total",
				Help: "Total number of bytes accepted into the ring buffer",
			},
			[]string{"relay"},
		),
		BytesRead: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ring_bytes_read_total",
				Help: "Total number of bytes drained from the ring buffer",
			},
			[]string{"relay"},
		),
		BytesLost: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ring_bytes_lost_total",
				Help: "Total number of bytes dropped because the ring was full",
			},
			[]string{"relay"},
		),
		RingUsed: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "ring_used_bytes",
				Help: "Current number of buffered, unread bytes in the ring",
			},
			[]string{"relay"},
		),
		RingCapacity: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "ring_capacity_bytes",
				Help: "Fixed capacity of the ring buffer",
			},
			[]string{"relay"},
		),

		// Relay metrics
		ChunksRelayed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "relay_chunks_total",
				Help: "Total number of chunks moved through the relay",
			},
			[]string{"relay", "direction"},
		),
		ChunksDropped: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "relay_chunks_dropped_total",
				Help: "Total number of chunks dropped in lossy mode",
			},
			[]string{"relay"},
		),
		TransferDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "relay_transfer_duration_seconds",
				Help:    "Duration of single chunk transfers through the ring",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"relay", "direction"},
		),
	}
}
