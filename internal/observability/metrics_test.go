package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNewMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := NewMetrics(registry)

	if metrics == nil {
		t.Fatal("NewMetrics returned nil")
	}

	metrics.BytesWritten.WithLabelValues("relay-1").Add(128)
	metrics.BytesRead.WithLabelValues("relay-1").Add(64)
	metrics.BytesLost.WithLabelValues("relay-1").Add(13)
	metrics.RingUsed.WithLabelValues("relay-1").Set(64)
	metrics.RingCapacity.WithLabelValues("relay-1").Set(1024)
	metrics.ChunksRelayed.WithLabelValues("relay-1", "in").Inc()
	metrics.ChunksDropped.WithLabelValues("relay-1").Inc()
	metrics.TransferDuration.WithLabelValues("relay-1", "out").Observe(0.002)

	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}

	want := map[string]bool{
		"ring_bytes_written_total":        false,
		"ring_bytes_read_total":           false,
		"ring_bytes_lost_total":           false,
		"ring_used_bytes":                 false,
		"ring_capacity_bytes":             false,
		"relay_chunks_total":              false,
		"relay_chunks_dropped_total":      false,
		"relay_transfer_duration_seconds": false,
	}
	for _, family := range families {
		if _, ok := want[family.GetName()]; ok {
			want[family.GetName()] = true
		}
	}
	for name, seen := range want {
		if !seen {
			t.Errorf("metric family %s not registered", name)
		}
	}
}

func TestMetricsIsolatedRegistries(t *testing.T) {
	// Separate registries must not collide, since each relay process
	// owns its own registry.
	first := NewMetrics(prometheus.NewRegistry())
	second := NewMetrics(prometheus.NewRegistry())

	if first == nil || second == nil {
		t.Fatal("NewMetrics returned nil")
	}
}
