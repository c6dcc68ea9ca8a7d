package block

import (
	"flowgraph/ring"
	"flowgraph/sampletype"
)

// Reader is the type-erased view Process receives for one input port.
// A block's concrete Process implementation type-asserts each Reader to
// the concrete type matching its own declared port SampleType (RealReader,
// ComplexReader, or ByteReader) — graph validation's type-match rule
// guarantees the assertion never fails for a started graph. This is
// design note (a) from spec.md: monomorphized per-element-type buffer
// families behind one dispatch-free interface per call.
type Reader interface {
	// Type reports the SampleType this reader carries.
	Type() sampletype.Type
}

// Writer is the output-port counterpart of Reader.
type Writer interface {
	Type() sampletype.Type
}

// RealReader reads Real32 elements from a StreamBuffer.
type RealReader struct {
	buf      *ring.Buffer[float32]
	reader   int
}

func (r *RealReader) Type() sampletype.Type { return sampletype.Real32 }

// Peek returns up to n unread elements without consuming them. eos is
// true only when the view is empty and the producer has closed the
// buffer.
func (r *RealReader) Peek(n int) (data []float32, eos bool) { return r.buf.ReadPeek(r.reader, n) }

// Consume advances this reader's cursor by k elements previously
// returned from Peek.
func (r *RealReader) Consume(k int) { r.buf.ReadConsume(r.reader, k) }

// ComplexReader reads Complex32 elements from a StreamBuffer.
type ComplexReader struct {
	buf    *ring.Buffer[complex64]
	reader int
}

func (r *ComplexReader) Type() sampletype.Type { return sampletype.Complex32 }

func (r *ComplexReader) Peek(n int) (data []complex64, eos bool) { return r.buf.ReadPeek(r.reader, n) }

func (r *ComplexReader) Consume(k int) { r.buf.ReadConsume(r.reader, k) }

// ByteReader reads Byte elements from a StreamBuffer.
type ByteReader struct {
	buf    *ring.Buffer[byte]
	reader int
}

func (r *ByteReader) Type() sampletype.Type { return sampletype.Byte }

func (r *ByteReader) Peek(n int) (data []byte, eos bool) { return r.buf.ReadPeek(r.reader, n) }

func (r *ByteReader) Consume(k int) { r.buf.ReadConsume(r.reader, k) }

// RealWriter writes Real32 elements to a StreamBuffer.
type RealWriter struct{ buf *ring.Buffer[float32] }

func (w *RealWriter) Type() sampletype.Type { return sampletype.Real32 }

// Reserve blocks until space exists and returns a writable view of up
// to n elements. The caller must follow with Commit(k), k <= len(view).
func (w *RealWriter) Reserve(n int) []float32 { return w.buf.WriteReserve(n) }

// Commit advances the write cursor by k elements previously returned
// from Reserve.
func (w *RealWriter) Commit(k int) { w.buf.WriteCommit(k) }

// Close marks this output as finished; downstream readers observe EOS
// once they have drained everything already committed.
func (w *RealWriter) Close() { w.buf.CloseWrite() }

// ComplexWriter writes Complex32 elements to a StreamBuffer.
type ComplexWriter struct{ buf *ring.Buffer[complex64] }

func (w *ComplexWriter) Type() sampletype.Type { return sampletype.Complex32 }

func (w *ComplexWriter) Reserve(n int) []complex64 { return w.buf.WriteReserve(n) }

func (w *ComplexWriter) Commit(k int) { w.buf.WriteCommit(k) }

func (w *ComplexWriter) Close() { w.buf.CloseWrite() }

// ByteWriter writes Byte elements to a StreamBuffer.
type ByteWriter struct{ buf *ring.Buffer[byte] }

func (w *ByteWriter) Type() sampletype.Type { return sampletype.Byte }

func (w *ByteWriter) Reserve(n int) []byte { return w.buf.WriteReserve(n) }

func (w *ByteWriter) Commit(k int) { w.buf.WriteCommit(k) }

func (w *ByteWriter) Close() { w.buf.CloseWrite() }

// NewStreamBuffer allocates the concrete ring for one output port given
// its declared SampleType, and returns the Writer the producing block
// uses, one Reader per fan-out consumer in consumer order, and the
// ring.Introspectable handle the scheduler's debug-stats ticker
// registers for capacity/occupancy reporting. capacity is in elements;
// numReaders must equal the edge's fan-out (>= 1).
func NewStreamBuffer(t sampletype.Type, capacity, numReaders int) (Writer, []Reader, ring.Introspectable) {
	switch t {
	case sampletype.Real32:
		buf := ring.New[float32](capacity, numReaders)
		readers := make([]Reader, numReaders)
		for i := range readers {
			readers[i] = &RealReader{buf: buf, reader: i}
		}
		return &RealWriter{buf: buf}, readers, buf
	case sampletype.Complex32:
		buf := ring.New[complex64](capacity, numReaders)
		readers := make([]Reader, numReaders)
		for i := range readers {
			readers[i] = &ComplexReader{buf: buf, reader: i}
		}
		return &ComplexWriter{buf: buf}, readers, buf
	case sampletype.Byte:
		buf := ring.New[byte](capacity, numReaders)
		readers := make([]Reader, numReaders)
		for i := range readers {
			readers[i] = &ByteReader{buf: buf, reader: i}
		}
		return &ByteWriter{buf: buf}, readers, buf
	default:
		panic("block: unsupported SampleType " + t.String())
	}
}
