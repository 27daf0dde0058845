// Package relay pumps a byte stream from a source to a sink through a
// bounded ring buffer, decoupling the pace of the two sides.
package relay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/jittakal/bytering/internal/errors"
	"github.com/jittakal/bytering/internal/observability"
	"github.com/jittakal/bytering/pkg/ring"
)

const (
	directionIn  = "in"
	directionOut = "out"
)

// Options configures a Relay.
type Options struct {
	// ChunkBytes is the transfer unit on both sides of the ring.
	ChunkBytes int

	// Lossy selects non-blocking writes: chunks that do not fit are
	// dropped and accounted as lost instead of exerting backpressure
	// on the source.
	Lossy bool

	// DrainPoll is the interval at which the relay re-checks ring
	// occupancy while draining during shutdown.
	DrainPoll time.Duration

	Logger  *slog.Logger
	Metrics *observability.Metrics
}

// Relay moves bytes from src to dst through a ring buffer. An inbound
// goroutine fills the ring, an outbound goroutine drains it; the ring
// absorbs pace differences between the two.
type Relay struct {
	id        string
	buf       ring.Buffer
	src       io.Reader
	dst       io.Writer
	chunk     int
	lossy     bool
	drainPoll time.Duration
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// New creates a relay over buf. Each relay gets a unique instance ID
// used as log field and metric label.
func New(buf ring.Buffer, src io.Reader, dst io.Writer, opts Options) *Relay {
	chunk := opts.ChunkBytes
	if chunk <= 0 {
		chunk = 4096
	}
	drainPoll := opts.DrainPoll
	if drainPoll <= 0 {
		drainPoll = 10 * time.Millisecond
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	id := uuid.NewString()
	return &Relay{
		id:        id,
		buf:       buf,
		src:       src,
		dst:       dst,
		chunk:     chunk,
		lossy:     opts.Lossy,
		drainPoll: drainPoll,
		logger:    logger.With("relay", id),
		metrics:   opts.Metrics,
	}
}

// ID returns the relay instance identifier.
func (r *Relay) ID() string {
	return r.id
}

// Run pumps until the source is exhausted or ctx is cancelled, then
// closes the ring and returns. The ring's blocking calls carry no
// cancellation of their own, so closing the ring is the mechanism that
// releases a parked pump.
func (r *Relay) Run(ctx context.Context) error {
	if r.metrics != nil {
		r.metrics.RingCapacity.WithLabelValues(r.id).Set(float64(r.buf.Size()))
	}

	inDone := make(chan error, 1)
	outDone := make(chan error, 1)
	go func() { inDone <- r.pumpIn() }()
	go func() { outDone <- r.pumpOut() }()

	var inErr error
	select {
	case inErr = <-inDone:
		// Source exhausted: let the outbound side catch up before
		// tearing the ring down.
		r.drain(ctx)
	case <-ctx.Done():
		if used := r.buf.Used(); used > 0 {
			r.logger.Warn("dropping buffered bytes on cancellation", "bytes", used)
		}
		// Unblock the inbound pump if the source supports it; a
		// reader stuck in src.Read cannot be released otherwise.
		if closer, ok := r.src.(io.Closer); ok {
			_ = closer.Close()
		}
	}

	if err := r.buf.Close(); err != nil && !errors.Is(err, apperrors.ErrNotInitialized) {
		r.logger.Error("failed to close ring", "error", err)
	}

	outErr := <-outDone
	if inErr == nil {
		select {
		case inErr = <-inDone:
		default:
		}
	}

	r.logger.Info("relay stopped", "lossy", r.lossy)
	return errors.Join(inErr, outErr)
}

// drain waits for the outbound side to empty the ring, or for ctx to be
// cancelled. The ring offers no drained notification, so occupancy is
// polled.
func (r *Relay) drain(ctx context.Context) {
	ticker := time.NewTicker(r.drainPoll)
	defer ticker.Stop()
	for r.buf.Used() > 0 {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (r *Relay) pumpIn() error {
	chunk := make([]byte, r.chunk)
	for {
		n, err := r.src.Read(chunk)
		if n > 0 {
			if werr := r.writeChunk(chunk[:n]); werr != nil {
				return werr
			}
		}
		if err != nil {
			// A source closed during shutdown ends the pump the
			// same way EOF does.
			if errors.Is(err, io.EOF) || errors.Is(err, os.ErrClosed) || errors.Is(err, io.ErrClosedPipe) {
				r.logger.Debug("source exhausted")
				return nil
			}
			return fmt.Errorf("source read failed: %w", err)
		}
	}
}

func (r *Relay) writeChunk(p []byte) error {
	start := time.Now()

	if r.lossy {
		if _, err := r.buf.TryWrite(p); err != nil {
			if apperrors.IsTransient(err) {
				r.logger.Debug("ring full, chunk dropped", "bytes", len(p))
				if r.metrics != nil {
					r.metrics.ChunksDropped.WithLabelValues(r.id).Inc()
					r.metrics.BytesLost.WithLabelValues(r.id).Add(float64(len(p)))
				}
				return nil
			}
			if errors.Is(err, apperrors.ErrNotInitialized) {
				return nil
			}
			return fmt.Errorf("ring write failed: %w", err)
		}
	} else {
		if _, err := r.buf.Write(p); err != nil {
			if errors.Is(err, apperrors.ErrNotInitialized) {
				return nil
			}
			return fmt.Errorf("ring write failed: %w", err)
		}
	}

	if r.metrics != nil {
		r.metrics.BytesWritten.WithLabelValues(r.id).Add(float64(len(p)))
		r.metrics.ChunksRelayed.WithLabelValues(r.id, directionIn).Inc()
		r.metrics.RingUsed.WithLabelValues(r.id).Set(float64(r.buf.Used()))
		r.metrics.TransferDuration.WithLabelValues(r.id, directionIn).Observe(time.Since(start).Seconds())
	}
	return nil
}

func (r *Relay) pumpOut() error {
	chunk := make([]byte, r.chunk)
	for {
		start := time.Now()
		n, err := r.buf.Read(chunk)
		if n > 0 {
			if _, werr := r.dst.Write(chunk[:n]); werr != nil {
				return fmt.Errorf("sink write failed: %w", werr)
			}
			if r.metrics != nil {
				r.metrics.BytesRead.WithLabelValues(r.id).Add(float64(n))
				r.metrics.ChunksRelayed.WithLabelValues(r.id, directionOut).Inc()
				r.metrics.RingUsed.WithLabelValues(r.id).Set(float64(r.buf.Used()))
				r.metrics.TransferDuration.WithLabelValues(r.id, directionOut).Observe(time.Since(start).Seconds())
			}
		}
		if err != nil {
			// A closed ring is the relay's end-of-stream signal.
			if errors.Is(err, apperrors.ErrNotInitialized) {
				return nil
			}
			return fmt.Errorf("ring read failed: %w", err)
		}
	}
}
