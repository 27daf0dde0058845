package ring

import (
	"sync"

	apperrors "github.com/jittakal/bytering/internal/errors"
	"github.com/jittakal/bytering/pkg/ring"
)

// Ensure implementation satisfies interface at compile time.
var _ ring.Buffer = (*BoundedByteRing)(nil)

// BoundedByteRing is a fixed-capacity byte ring buffer for decoupling
// producer and consumer goroutines running at different paces.
//
// The write cursor is always derived as (tail+used)%capacity and never
// stored, so used alone distinguishes empty (0) from full (capacity)
// without an ambiguous head==tail state.
//
// Locking discipline: mu guards all bookkeeping and data movement and is
// held only for bounded copy sections, never across a wait. The two
// notification channels are signaled and waited on strictly outside mu.
// writerMu and readerMu serialize blocking calls per side so concurrent
// blocking writers (or readers) cannot interleave partial transfers.
type BoundedByteRing struct {
	mu       sync.Mutex
	capacity int
	storage  []byte
	tail     int
	used     int
	lost     int
	closed   bool

	// Capacity-1 channels acting as condition signals. A buffered
	// token makes a signal level-triggered: a reader freeing space
	// between a writer's failed pass and its wait leaves the token
	// behind, so the wakeup cannot be lost.
	spaceAvailable chan struct{}
	dataAvailable  chan struct{}

	writerMu sync.Mutex
	readerMu sync.Mutex
}

// New creates a ring buffer owning capacity bytes of storage.
func New(capacity int) (*BoundedByteRing, error) {
	if capacity <= 0 {
		return nil, apperrors.ErrInvalidCapacity
	}
	return &BoundedByteRing{
		capacity:       capacity,
		storage:        make([]byte, capacity),
		spaceAvailable: make(chan struct{}, 1),
		dataAvailable:  make(chan struct{}, 1),
	}, nil
}

// signal posts a wakeup token without blocking. Tokens coalesce: at most
// one is pending per channel, which is sufficient because blocking calls
// are serialized to a single waiter per side.
func signal(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

// put copies all of p at the derived write cursor, splitting into two
// copies when the span crosses the physical end of storage.
// Caller must hold mu and have checked that p fits.
func (r *BoundedByteRing) put(p []byte) {
	head := (r.tail + r.used) % r.capacity
	n := copy(r.storage[head:], p)
	if n < len(p) {
		copy(r.storage, p[n:])
	}
	r.used += len(p)
}

// getContiguous copies the longest run available without crossing the
// wrap boundary, bounded by len(p) and used, and advances tail.
// Caller must hold mu.
func (r *BoundedByteRing) getContiguous(p []byte) int {
	n := len(p)
	if n > r.used {
		n = r.used
	}
	if run := r.capacity - r.tail; n > run {
		n = run
	}
	if n == 0 {
		return 0
	}
	copy(p, r.storage[r.tail:r.tail+n])
	r.tail = (r.tail + n) % r.capacity
	r.used -= n
	return n
}

// Write transfers all of p into the ring, suspending while the ring is
// full. It returns len(p) unless the ring is closed mid-transfer, in
// which case the partial count is returned with ErrNotInitialized.
// Writing an empty slice returns 0 without blocking.
func (r *BoundedByteRing) Write(p []byte) (int, error) {
	r.writerMu.Lock()
	defer r.writerMu.Unlock()

	written := 0
	for {
		r.mu.Lock()
		if r.closed {
			r.mu.Unlock()
			return written, apperrors.ErrNotInitialized
		}
		n := len(p) - written
		if free := r.capacity - r.used; n > free {
			n = free
		}
		if n > 0 {
			r.put(p[written : written+n])
		}
		r.mu.Unlock()

		if n > 0 {
			written += n
			signal(r.dataAvailable)
		}
		if written == len(p) {
			return written, nil
		}
		<-r.spaceAvailable
	}
}

// TryWrite transfers all of p without suspending. The transfer is
// all-or-nothing: when p does not currently fit, nothing is written, the
// rejected length is added to the loss counter, and an OpError wrapping
// ErrInsufficientSpace is returned.
func (r *BoundedByteRing) TryWrite(p []byte) (int, error) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return 0, apperrors.ErrNotInitialized
	}
	if len(p) > r.capacity {
		capacity := r.capacity
		r.mu.Unlock()
		return 0, &apperrors.OpError{
			Op:        "try_write",
			Requested: len(p),
			Available: capacity,
			Err:       apperrors.ErrTooLarge,
		}
	}
	free := r.capacity - r.used
	if len(p) > free {
		r.lost += len(p)
		r.mu.Unlock()
		return 0, &apperrors.OpError{
			Op:        "try_write",
			Requested: len(p),
			Available: free,
			Err:       apperrors.ErrInsufficientSpace,
		}
	}
	r.put(p)
	r.mu.Unlock()

	if len(p) > 0 {
		signal(r.dataAvailable)
	}
	return len(p), nil
}

// Read copies up to len(p) bytes into p, suspending only while the ring
// is empty and nothing has been copied yet. Once at least one byte has
// been transferred, an empty ring ends the call with a short count
// instead of waiting, so a reader is never held hostage by a stalled
// writer. Each pass copies at most the contiguous run up to the wrap
// boundary; the wrap is completed by the next pass.
func (r *BoundedByteRing) Read(p []byte) (int, error) {
	r.readerMu.Lock()
	defer r.readerMu.Unlock()

	read := 0
	for read < len(p) {
		r.mu.Lock()
		if r.closed {
			r.mu.Unlock()
			return read, apperrors.ErrNotInitialized
		}
		n := r.getContiguous(p[read:])
		r.mu.Unlock()

		if n == 0 {
			if read > 0 {
				break
			}
			<-r.dataAvailable
			continue
		}
		read += n
	}

	if read > 0 {
		signal(r.spaceAvailable)
	}
	return read, nil
}

// TryRead copies exactly len(p) bytes into p without suspending. The
// transfer is all-or-nothing: when fewer than len(p) bytes are buffered,
// nothing is read and an OpError wrapping ErrInsufficientData is
// returned.
func (r *BoundedByteRing) TryRead(p []byte) (int, error) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return 0, apperrors.ErrNotInitialized
	}
	if len(p) > r.capacity {
		capacity := r.capacity
		r.mu.Unlock()
		return 0, &apperrors.OpError{
			Op:        "try_read",
			Requested: len(p),
			Available: capacity,
			Err:       apperrors.ErrTooLarge,
		}
	}
	if len(p) > r.used {
		available := r.used
		r.mu.Unlock()
		return 0, &apperrors.OpError{
			Op:        "try_read",
			Requested: len(p),
			Available: available,
			Err:       apperrors.ErrInsufficientData,
		}
	}
	// The whole request is known to fit, so at most two contiguous
	// copies complete it.
	read := 0
	for read < len(p) {
		read += r.getContiguous(p[read:])
	}
	r.mu.Unlock()

	if read > 0 {
		signal(r.spaceAvailable)
	}
	return read, nil
}

// Clear discards all buffered bytes and resets the loss counter. Blocked
// readers and writers are not woken; they continue waiting on their
// existing condition.
func (r *BoundedByteRing) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.tail = 0
	r.used = 0
	r.lost = 0
}

// Size returns the fixed capacity. It keeps reporting the construction
// capacity after Close.
func (r *BoundedByteRing) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.capacity
}

// Used returns the number of buffered, unread bytes.
func (r *BoundedByteRing) Used() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.used
}

// Free returns the number of bytes that can be written without blocking.
func (r *BoundedByteRing) Free() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.capacity - r.used
}

// Lost returns the accumulated loss counter.
func (r *BoundedByteRing) Lost() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lost
}

// ClearLost resets the loss counter and returns its previous value.
func (r *BoundedByteRing) ClearLost() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	lost := r.lost
	r.lost = 0
	return lost
}

// ReportLoss records n bytes an external caller determined were dropped,
// for example a payload rejected upstream of the ring, and returns the
// new total.
func (r *BoundedByteRing) ReportLoss(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n > 0 {
		r.lost += n
	}
	return r.lost
}

// Close releases the ring. Goroutines blocked in Write or Read are woken
// and return their partial counts with ErrNotInitialized; any buffered
// bytes are discarded. A second Close returns ErrNotInitialized.
func (r *BoundedByteRing) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return apperrors.ErrNotInitialized
	}
	r.closed = true
	r.storage = nil
	r.tail = 0
	r.used = 0
	r.lost = 0
	r.mu.Unlock()

	// At most one blocking call waits per side, so one token each is
	// enough to flush the waiters out.
	signal(r.spaceAvailable)
	signal(r.dataAvailable)
	return nil
}
