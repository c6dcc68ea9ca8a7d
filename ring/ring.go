// Package ring implements the flow-graph's StreamBuffer: a bounded,
// single-producer/multi-consumer ring carrying typed samples between one
// block's output port and every block connected to it.
//
// It is grounded on the teacher codebase's x/shmring single-producer/
// single-consumer byte ring (same "reserve a span, commit what you
// used" shape, same one-mutex-guards-cursors discipline) generalized
// two ways: from one reader to N independent readers (one per
// fan-out consumer, each with its own cursor, per spec.md's fan-out ≥ 0
// invariant), and from raw bytes to a generic element type T so that a
// Real32, Complex32, or Byte edge gets its own monomorphized buffer
// with no reinterpretation at the boundary (design note (a) in
// spec.md's "Heterogeneous typed ports" discussion).
package ring

import "sync"

// Buffer is the bounded SPMC ring for one output port. The zero value
// is not usable; construct with New.
type Buffer[T any] struct {
	mu   sync.Mutex
	cond *sync.Cond

	data []T
	cap  int

	wr      uint64   // write cursor, monotonic
	readers []uint64 // one read cursor per consumer, monotonic

	eos bool
}

// New returns a Buffer of the given element capacity serving numReaders
// independent consumers (numReaders must be >= 1; one per fan-out edge).
func New[T any](capacity, numReaders int) *Buffer[T] {
	if capacity <= 0 {
		panic("ring: capacity must be positive")
	}
	if numReaders <= 0 {
		numReaders = 1
	}
	b := &Buffer[T]{
		data:    make([]T, capacity),
		cap:     capacity,
		readers: make([]uint64, numReaders),
	}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// Cap returns the ring's capacity in elements.
func (b *Buffer[T]) Cap() int { return b.cap }

// NumReaders returns the number of independent consumers this buffer
// serves.
func (b *Buffer[T]) NumReaders() int { return len(b.readers) }

func (b *Buffer[T]) minReaderLocked() uint64 {
	min := b.readers[0]
	for _, rd := range b.readers[1:] {
		if rd < min {
			min = rd
		}
	}
	return min
}

// WriteReserve blocks until at least one element of free space exists
// behind the slowest reader, then returns a contiguous writable view of
// up to n elements. The caller must follow with WriteCommit(k) for some
// k in [0, len(view)].
func (b *Buffer[T]) WriteReserve(n int) []T {
	if n <= 0 {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for {
		minRd := b.minReaderLocked()
		free := b.cap - int(b.wr-minRd)
		if free > 0 {
			if free > n {
				free = n
			}
			start := int(b.wr) % b.cap
			run := b.cap - start
			if run > free {
				run = free
			}
			return b.data[start : start+run]
		}
		b.cond.Wait()
	}
}

// WriteCommit advances the write cursor by k elements, previously
// obtained from WriteReserve, and wakes any blocked reader.
func (b *Buffer[T]) WriteCommit(k int) {
	if k <= 0 {
		return
	}
	b.mu.Lock()
	b.wr += uint64(k)
	b.mu.Unlock()
	b.cond.Broadcast()
}

// ReadPeek blocks until reader has at least one element available or the
// buffer has reached end-of-stream with nothing left for it, then
// returns a contiguous readable view of up to n elements. eos is true
// only when the view is empty because the producer closed the buffer
// and this reader has drained everything already written.
func (b *Buffer[T]) ReadPeek(reader, n int) (view []T, eos bool) {
	if n <= 0 {
		return nil, false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for {
		rd := b.readers[reader]
		avail := int(b.wr - rd)
		if avail > 0 {
			if avail > n {
				avail = n
			}
			start := int(rd) % b.cap
			run := b.cap - start
			if run > avail {
				run = avail
			}
			return b.data[start : start+run], false
		}
		if b.eos {
			return nil, true
		}
		b.cond.Wait()
	}
}

// ReadConsume advances reader's cursor by k elements, previously
// obtained from ReadPeek, and wakes the producer if it was blocked on
// space freed by this consumer.
func (b *Buffer[T]) ReadConsume(reader, k int) {
	if k <= 0 {
		return
	}
	b.mu.Lock()
	b.readers[reader] += uint64(k)
	b.mu.Unlock()
	b.cond.Broadcast()
}

// CloseWrite sets the end-of-stream flag and wakes every blocked reader.
// Readers may still drain whatever was already committed before they
// observe EOS.
func (b *Buffer[T]) CloseWrite() {
	b.mu.Lock()
	b.eos = true
	b.mu.Unlock()
	b.cond.Broadcast()
}

// Occupancy returns, for debugging/introspection, the number of
// elements written but not yet consumed by the slowest reader.
func (b *Buffer[T]) Occupancy() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return int(b.wr - b.minReaderLocked())
}
