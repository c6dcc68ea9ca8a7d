// Package blocks is a small library of primitive blocks used to
// exercise the graph and scheduler end-to-end: a constant-value Real32
// source, a byte-counting sink, a fan-out-safe passthrough, and a
// scale-by-constant transform. None of these perform real DSP; spec.md
// explicitly keeps individual algorithms (FIR, PLL, AGC, ...) out of
// scope, so this package only supplies the scaffolding the spec's
// concrete scenarios in §8 need. Grounded on the teacher's
// devices/led and devices/gpio_dout builders: a tiny struct holding its
// declared config, constructed by a plain function rather than a
// generic factory.
package blocks

import (
	"flowgraph/block"
	"flowgraph/sampletype"
)

// ConstantSource produces an endless Real32 stream of one fixed value
// at a fixed declared rate.
type ConstantSource struct {
	id    string
	value float32
	rate  float64
}

// NewConstantSource builds a source that emits value forever once
// started and reports rate samples/second as its output rate.
// Production is not paced to that rate: it runs as fast as downstream
// backpressure allows.
func NewConstantSource(id string, value float32, rate float64) *ConstantSource {
	return &ConstantSource{id: id, value: value, rate: rate}
}

func (s *ConstantSource) ID() string           { return s.id }
func (s *ConstantSource) Inputs() []block.Port { return nil }
func (s *ConstantSource) Outputs() []block.Port {
	return []block.Port{{Name: "out1", Dir: block.Output, Type: sampletype.Real32}}
}

func (s *ConstantSource) Initialize(alloc block.Allocator) error { return nil }

func (s *ConstantSource) SetRate(inputRates []float64) []float64 { return []float64{s.rate} }

func (s *ConstantSource) Process(ins []block.Reader, outs []block.Writer) block.ProcessResult {
	w := outs[0].(*block.RealWriter)
	view := w.Reserve(4096)
	for i := range view {
		view[i] = s.value
	}
	return block.SamplesResult(nil, []int{len(view)})
}

func (s *ConstantSource) Deinitialize() {}
