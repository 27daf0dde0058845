// Package ring defines the interface for bounded byte ring buffers.
//
// A ring buffer decouples a producer and a consumer running at different
// paces, for example a synchronous I/O thread feeding an asynchronous
// event thread. All data transfer is by copy; the ring never exposes its
// storage by reference.
package ring

// Buffer is a fixed-capacity FIFO byte buffer safe for concurrent use.
// Blocking operations suspend the calling goroutine; non-blocking
// operations are all-or-nothing and never suspend.
type Buffer interface {
	// Write transfers all of p into the buffer, blocking while the
	// buffer is full. It returns len(p) on success and a short count
	// only if the buffer is closed mid-transfer.
	Write(p []byte) (int, error)

	// TryWrite transfers all of p without blocking. It fails with
	// ErrTooLarge if len(p) exceeds the total capacity and with
	// ErrInsufficientSpace if p does not currently fit; in both cases
	// nothing is written.
	TryWrite(p []byte) (int, error)

	// Read copies up to len(p) buffered bytes into p, blocking only
	// while the buffer is empty. Once at least one byte has been
	// copied, Read returns rather than wait for more, so short reads
	// are an expected outcome.
	Read(p []byte) (int, error)

	// TryRead copies exactly len(p) bytes into p without blocking. It
	// fails with ErrTooLarge if len(p) exceeds the total capacity and
	// with ErrInsufficientData if fewer than len(p) bytes are
	// buffered; in both cases nothing is read.
	TryRead(p []byte) (int, error)

	// Clear discards all buffered bytes and resets the loss counter.
	// Blocked readers and writers are not woken.
	Clear()

	// Size returns the fixed capacity in bytes.
	Size() int

	// Used returns the number of buffered, unread bytes.
	Used() int

	// Free returns Size() - Used().
	Free() int

	// Lost returns the number of bytes dropped since the last Clear
	// or ClearLost, including rejected TryWrite payloads and
	// externally reported losses.
	Lost() int

	// ClearLost resets the loss counter and returns its previous
	// value.
	ClearLost() int

	// ReportLoss adds n externally dropped bytes to the loss counter
	// and returns the new total.
	ReportLoss(n int) int

	// Close releases the buffer. Goroutines blocked in Write or Read
	// are woken and return their partial counts with
	// ErrNotInitialized. Closing twice returns ErrNotInitialized.
	Close() error
}
