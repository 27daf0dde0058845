package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jittakal/bytering/internal/config"
	"github.com/jittakal/bytering/internal/config/dto"
	"github.com/jittakal/bytering/internal/observability"
	"github.com/jittakal/bytering/internal/relay"
	"github.com/jittakal/bytering/internal/ring"
	"github.com/jittakal/bytering/internal/server"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("application error: %v", err)
	}
}

func run() error {
	// Parse command-line flags
	configPath := flag.String("config", "", "path to configuration file")
	flag.Parse()

	// Load configuration
	// Priority: CLI flag > CONFIG_PATH env var > default path
	var cfgPath string
	if *configPath != "" {
		cfgPath = *configPath
	} else if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		cfgPath = envPath
	} else {
		cfgPath = "config/application.yaml"
	}

	loader := config.NewLoader()
	cfg, err := loader.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize observability
	logger := observability.NewLogger(observability.LoggingConfig{
		Level:  cfg.Observability.Logging.Level,
		Format: cfg.Observability.Logging.Format,
		Output: cfg.Observability.Logging.Output,
	})
	logger.Info("starting byte ring relay",
		"version", cfg.Application.Version,
		"environment", cfg.Application.Environment,
	)

	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)

	// Track cleanup functions
	var cleanupFuncs []func() error
	addCleanup := func(name string, fn func() error) {
		cleanupFuncs = append(cleanupFuncs, fn)
		logger.Debug("registered cleanup", "component", name)
	}
	runCleanups := func() {
		for i := len(cleanupFuncs) - 1; i >= 0; i-- {
			if err := cleanupFuncs[i](); err != nil {
				logger.Error("cleanup failed", "error", err)
			}
		}
	}
	defer runCleanups()

	// Initialize the ring buffer
	buf, err := ring.New(cfg.Ring.CapacityBytes)
	if err != nil {
		return fmt.Errorf("failed to create ring buffer: %w", err)
	}
	addCleanup("ring-buffer", func() error {
		// The relay closes the ring on shutdown; closing twice is
		// harmless here.
		_ = buf.Close()
		return nil
	})

	// Open relay endpoints
	src, err := openInput(cfg.Relay.Input)
	if err != nil {
		return fmt.Errorf("failed to open input: %w", err)
	}
	if closer, ok := src.(io.Closer); ok && src != os.Stdin {
		addCleanup("relay-input", closer.Close)
	}

	dst, err := openOutput(cfg.Relay.Output)
	if err != nil {
		return fmt.Errorf("failed to open output: %w", err)
	}
	if closer, ok := dst.(io.Closer); ok && dst != os.Stdout {
		addCleanup("relay-output", closer.Close)
	}

	// Start HTTP server
	httpServer := server.NewServer(
		cfg.Observability.Health.Port,
		cfg.Observability.Metrics.Port,
		server.NewRingChecker(buf),
		registry,
		logger,
	)

	if err := httpServer.Start(); err != nil {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	addCleanup("http-server", func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(ctx)
	})

	// Create the relay
	r := relay.New(buf, src, dst, relay.Options{
		ChunkBytes: cfg.Relay.ChunkBytes,
		Lossy:      cfg.Relay.Mode == dto.ModeLossy,
		DrainPoll:  time.Duration(cfg.Relay.DrainPollMS) * time.Millisecond,
		Logger:     logger,
		Metrics:    metrics,
	})

	logger.Info("application started successfully",
		"relay", r.ID(),
		"input", cfg.Relay.Input,
		"output", cfg.Relay.Output,
		"mode", cfg.Relay.Mode,
		"capacity_bytes", cfg.Ring.CapacityBytes,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start the relay in background
	relayErrChan := make(chan error, 1)
	go func() {
		relayErrChan <- r.Run(ctx)
	}()

	// Wait for termination signal or relay completion
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigChan:
		logger.Info("received termination signal")
	case err := <-relayErrChan:
		if err != nil {
			logger.Error("relay error", "error", err)
			return err
		}
		logger.Info("relay finished")
		return nil
	}

	// Graceful shutdown
	logger.Info("initiating graceful shutdown")
	cancel()

	// Allow time for in-flight transfers to complete
	shutdownTimeout := time.Duration(cfg.Shutdown.GracePeriodSeconds) * time.Second
	select {
	case err := <-relayErrChan:
		if err != nil {
			logger.Error("relay error during shutdown", "error", err)
			return err
		}
	case <-time.After(shutdownTimeout):
		logger.Warn("relay did not stop within grace period", "grace_period", shutdownTimeout)
	}

	logger.Info("application stopped successfully")
	return nil
}

// openInput resolves a relay input name. "-" selects stdin; anything
// else is opened as a filesystem path.
func openInput(name string) (io.Reader, error) {
	if name == "-" {
		return os.Stdin, nil
	}
	return os.Open(name)
}

// openOutput resolves a relay output name. "-" selects stdout; anything
// else is created as a filesystem path.
func openOutput(name string) (io.Writer, error) {
	if name == "-" {
		return os.Stdout, nil
	}
	return os.Create(name)
}
