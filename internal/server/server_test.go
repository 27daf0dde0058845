package server

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jittakal/bytering/internal/ring"
)

func TestNewServer(t *testing.T) {
	buf, err := ring.New(16)
	if err != nil {
		t.Fatalf("ring.New() error = %v", err)
	}
	defer buf.Close()

	srv := NewServer(18080, 19090, NewRingChecker(buf), prometheus.NewRegistry(), testLogger())
	if srv == nil {
		t.Fatal("NewServer returned nil")
	}
	if srv.healthServer.Addr != ":18080" {
		t.Errorf("health addr = %q, want :18080", srv.healthServer.Addr)
	}
	if srv.metricsServer.Addr != ":19090" {
		t.Errorf("metrics addr = %q, want :19090", srv.metricsServer.Addr)
	}
}

func TestServerShutdown(t *testing.T) {
	buf, err := ring.New(16)
	if err != nil {
		t.Fatalf("ring.New() error = %v", err)
	}
	defer buf.Close()

	srv := NewServer(18081, 19091, NewRingChecker(buf), prometheus.NewRegistry(), testLogger())
	if err := srv.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}
