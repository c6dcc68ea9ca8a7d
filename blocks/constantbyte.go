package blocks

import (
	"flowgraph/block"
	"flowgraph/sampletype"
)

// ConstantByteSource produces an endless Byte stream of one fixed value
// at a fixed declared rate. Used alongside ByteCountSink for the
// source->sink degenerate scenario.
type ConstantByteSource struct {
	id    string
	value byte
	rate  float64
}

// NewConstantByteSource builds a Byte source that emits value forever
// and reports rate samples/second as its output rate. Production is not
// paced to that rate: it runs as fast as downstream backpressure allows.
func NewConstantByteSource(id string, value byte, rate float64) *ConstantByteSource {
	return &ConstantByteSource{id: id, value: value, rate: rate}
}

func (s *ConstantByteSource) ID() string           { return s.id }
func (s *ConstantByteSource) Inputs() []block.Port { return nil }
func (s *ConstantByteSource) Outputs() []block.Port {
	return []block.Port{{Name: "out1", Dir: block.Output, Type: sampletype.Byte}}
}

func (s *ConstantByteSource) Initialize(alloc block.Allocator) error { return nil }

func (s *ConstantByteSource) SetRate(inputRates []float64) []float64 { return []float64{s.rate} }

func (s *ConstantByteSource) Process(ins []block.Reader, outs []block.Writer) block.ProcessResult {
	w := outs[0].(*block.ByteWriter)
	view := w.Reserve(4096)
	for i := range view {
		view[i] = s.value
	}
	return block.SamplesResult(nil, []int{len(view)})
}

func (s *ConstantByteSource) Deinitialize() {}
