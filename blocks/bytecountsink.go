package blocks

import (
	"sync/atomic"

	"flowgraph/block"
	"flowgraph/sampletype"
)

// ByteCountSink consumes a Byte stream, discarding it, while keeping a
// running count of how many elements it has consumed. Safe to read
// Count concurrently with the worker driving Process.
type ByteCountSink struct {
	id    string
	count atomic.Uint64
}

// NewByteCountSink builds a sink that counts consumed Byte elements.
func NewByteCountSink(id string) *ByteCountSink {
	return &ByteCountSink{id: id}
}

func (s *ByteCountSink) ID() string { return s.id }
func (s *ByteCountSink) Inputs() []block.Port {
	return []block.Port{{Name: "in1", Dir: block.Input, Type: sampletype.Byte}}
}
func (s *ByteCountSink) Outputs() []block.Port { return nil }

func (s *ByteCountSink) Initialize(alloc block.Allocator) error { return nil }

func (s *ByteCountSink) SetRate(inputRates []float64) []float64 { return nil }

func (s *ByteCountSink) Process(ins []block.Reader, outs []block.Writer) block.ProcessResult {
	r := ins[0].(*block.ByteReader)
	data, eos := r.Peek(8192)
	if len(data) == 0 {
		if eos {
			return block.EndOfStream()
		}
		return block.SamplesResult([]int{0}, nil)
	}
	s.count.Add(uint64(len(data)))
	return block.SamplesResult([]int{len(data)}, nil)
}

func (s *ByteCountSink) Deinitialize() {}

// Count returns the number of Byte elements consumed so far.
func (s *ByteCountSink) Count() uint64 { return s.count.Load() }
