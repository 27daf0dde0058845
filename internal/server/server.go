// Package server implements the HTTP endpoints for health checks and
// metrics.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthChecker reports component health for the probe handlers.
type HealthChecker interface {
	Liveness() bool
	Readiness(ctx context.Context) bool
	GetStatus() map[string]string
}

// Server hosts the health and metrics endpoints on separate ports.
type Server struct {
	healthServer  *http.Server
	metricsServer *http.Server
	logger        *slog.Logger
}

// NewServer creates the HTTP server pair.
func NewServer(
	healthPort int,
	metricsPort int,
	healthChecker HealthChecker,
	registry *prometheus.Registry,
	logger *slog.Logger,
) *Server {
	healthMux := http.NewServeMux()
	healthMux.HandleFunc("/health/live", LivenessHandler(healthChecker, logger))
	healthMux.HandleFunc("/health/ready", ReadinessHandler(healthChecker, logger))

	healthServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", healthPort),
		Handler:      healthMux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	metricsServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", metricsPort),
		Handler:      metricsMux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	return &Server{
		healthServer:  healthServer,
		metricsServer: metricsServer,
		logger:        logger,
	}
}

// Start launches both listeners in the background.
func (s *Server) Start() error {
	go func() {
		s.logger.Info("starting health server", "addr", s.healthServer.Addr)
		if err := s.healthServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("health server failed", "error", err)
		}
	}()

	go func() {
		s.logger.Info("starting metrics server", "addr", s.metricsServer.Addr)
		if err := s.metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("metrics server failed", "error", err)
		}
	}()

	return nil
}

// Shutdown gracefully shuts down both servers.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP servers")

	errChan := make(chan error, 2)

	go func() {
		errChan <- s.healthServer.Shutdown(ctx)
	}()

	go func() {
		errChan <- s.metricsServer.Shutdown(ctx)
	}()

	var lastErr error
	for i := 0; i < 2; i++ {
		if err := <-errChan; err != nil {
			s.logger.Error("error shutting down server", "error", err)
			lastErr = err
		}
	}

	return lastErr
}
