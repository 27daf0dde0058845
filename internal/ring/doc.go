// Package ring implements a fixed-capacity byte ring buffer for
// decoupling producer and consumer goroutines.
//
// The buffer is designed for the classic pairing of a synchronous I/O
// goroutine on one side and an asynchronous event goroutine on the
// other: each side runs at its own pace and the ring absorbs the
// difference, blocking only when it is full (writers) or empty
// (readers).
//
// # BoundedByteRing
//
// BoundedByteRing owns a storage region of fixed capacity allocated once
// at construction:
//
//	buf, err := ring.New(64 * 1024)
//	if err != nil {
//	    return err
//	}
//	defer buf.Close()
//
// # Blocking transfer
//
// Write blocks until every byte has been accepted; Read blocks only
// while the ring is empty and returns a short count as soon as the ring
// drains mid-call:
//
//	go func() {
//	    buf.Write(payload) // completes fully or fails
//	}()
//
//	chunk := make([]byte, 4096)
//	n, err := buf.Read(chunk) // n may be < len(chunk)
//
// The asymmetry is deliberate: writers promise delivery, readers avoid
// head-of-line blocking by handing over whatever is already buffered.
//
// # Non-blocking transfer
//
// TryWrite and TryRead never suspend and are all-or-nothing. A request
// larger than the whole ring fails with ErrTooLarge; a request that
// merely does not fit right now fails with ErrInsufficientSpace or
// ErrInsufficientData and leaves the ring untouched:
//
//	if _, err := buf.TryWrite(sample); err != nil {
//	    if errors.Is(err, apperrors.ErrWouldBlock) {
//	        // ring full, sample dropped and counted as lost
//	    }
//	}
//
// # Loss accounting
//
// Rejected TryWrite payloads accumulate into a loss counter, and callers
// that drop data upstream of the ring can fold their losses into the
// same counter with ReportLoss. Lost reads it, ClearLost reads and
// resets it.
//
// # Concurrency
//
// All operations are safe for concurrent use. A short-held state lock
// guards the bookkeeping and the copy itself; two token channels carry
// space-available and data-available wakeups and are never touched while
// the state lock is held; per-side serialization locks queue concurrent
// blocking writers (and readers) so their transfers never interleave.
// Non-blocking calls only ever take the state lock, so a blocked reader
// never delays a TryWrite.
//
// Blocking calls carry no timeout or cancellation: a stuck peer can only
// be relieved by the other side making progress or by Close, which wakes
// blocked callers and fails them with ErrNotInitialized. Callers that
// need deadlines must layer them externally.
package ring
