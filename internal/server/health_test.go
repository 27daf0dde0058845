package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jittakal/bytering/internal/ring"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLivenessHandler(t *testing.T) {
	buf, err := ring.New(8)
	if err != nil {
		t.Fatalf("ring.New() error = %v", err)
	}
	defer buf.Close()

	handler := LivenessHandler(NewRingChecker(buf), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("liveness status = %d, want %d", rec.Code, http.StatusOK)
	}

	var response HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if response.Status != "alive" {
		t.Errorf("status = %q, want alive", response.Status)
	}
}

func TestReadinessHandler(t *testing.T) {
	buf, err := ring.New(4)
	if err != nil {
		t.Fatalf("ring.New() error = %v", err)
	}
	defer buf.Close()

	handler := ReadinessHandler(NewRingChecker(buf), testLogger())

	t.Run("ready with free space", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
		rec := httptest.NewRecorder()
		handler(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("readiness status = %d, want %d", rec.Code, http.StatusOK)
		}

		var response HealthResponse
		if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if response.Checks["ring_size"] != "4" {
			t.Errorf("ring_size = %q, want 4", response.Checks["ring_size"])
		}
		if response.Checks["ring_used"] != "0" {
			t.Errorf("ring_used = %q, want 0", response.Checks["ring_used"])
		}
	})

	t.Run("not ready when full", func(t *testing.T) {
		if _, err := buf.TryWrite([]byte{1, 2, 3, 4}); err != nil {
			t.Fatalf("TryWrite() error = %v", err)
		}
		defer buf.Clear()

		req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
		rec := httptest.NewRecorder()
		handler(rec, req)

		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("readiness status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
		}

		var response HealthResponse
		if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if response.Checks["ring_free"] != "0" {
			t.Errorf("ring_free = %q, want 0", response.Checks["ring_free"])
		}
	})
}

func TestRingCheckerStatusTracksLoss(t *testing.T) {
	buf, err := ring.New(8)
	if err != nil {
		t.Fatalf("ring.New() error = %v", err)
	}
	defer buf.Close()

	buf.ReportLoss(11)

	checker := NewRingChecker(buf)
	status := checker.GetStatus()
	if status["ring_lost"] != "11" {
		t.Errorf("ring_lost = %q, want 11", status["ring_lost"])
	}
}
