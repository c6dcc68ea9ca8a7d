package blocks

import (
	"flowgraph/block"
	"flowgraph/sampletype"
)

// Passthrough copies its single Real32 input to its single Real32
// output unchanged. Fan-out (multiple consumers of its output) is
// handled entirely by the StreamBuffer the scheduler wires to its
// output port; Passthrough itself only ever sees one producer-side
// writer.
type Passthrough struct {
	id string
}

// NewPassthrough builds an identity Real32 block.
func NewPassthrough(id string) *Passthrough { return &Passthrough{id: id} }

func (p *Passthrough) ID() string { return p.id }
func (p *Passthrough) Inputs() []block.Port {
	return []block.Port{{Name: "in1", Dir: block.Input, Type: sampletype.Real32}}
}
func (p *Passthrough) Outputs() []block.Port {
	return []block.Port{{Name: "out1", Dir: block.Output, Type: sampletype.Real32}}
}

func (p *Passthrough) Initialize(alloc block.Allocator) error { return nil }

func (p *Passthrough) SetRate(inputRates []float64) []float64 {
	return []float64{inputRates[0]}
}

func (p *Passthrough) Process(ins []block.Reader, outs []block.Writer) block.ProcessResult {
	r := ins[0].(*block.RealReader)
	w := outs[0].(*block.RealWriter)

	data, eos := r.Peek(4096)
	if len(data) == 0 {
		if eos {
			return block.EndOfStream()
		}
		return block.SamplesResult([]int{0}, []int{0})
	}
	view := w.Reserve(len(data))
	n := copy(view, data)
	return block.SamplesResult([]int{n}, []int{n})
}

func (p *Passthrough) Deinitialize() {}

// Scale multiplies its single Real32 input by a fixed constant factor.
type Scale struct {
	id     string
	factor float32
}

// NewScale builds a block that multiplies every input sample by factor.
func NewScale(id string, factor float32) *Scale { return &Scale{id: id, factor: factor} }

func (s *Scale) ID() string { return s.id }
func (s *Scale) Inputs() []block.Port {
	return []block.Port{{Name: "in1", Dir: block.Input, Type: sampletype.Real32}}
}
func (s *Scale) Outputs() []block.Port {
	return []block.Port{{Name: "out1", Dir: block.Output, Type: sampletype.Real32}}
}

func (s *Scale) Initialize(alloc block.Allocator) error { return nil }

func (s *Scale) SetRate(inputRates []float64) []float64 {
	return []float64{inputRates[0]}
}

func (s *Scale) Process(ins []block.Reader, outs []block.Writer) block.ProcessResult {
	r := ins[0].(*block.RealReader)
	w := outs[0].(*block.RealWriter)

	data, eos := r.Peek(4096)
	if len(data) == 0 {
		if eos {
			return block.EndOfStream()
		}
		return block.SamplesResult([]int{0}, []int{0})
	}
	view := w.Reserve(len(data))
	n := len(view)
	if n > len(data) {
		n = len(data)
	}
	for i := 0; i < n; i++ {
		view[i] = data[i] * s.factor
	}
	return block.SamplesResult([]int{n}, []int{n})
}

func (s *Scale) Deinitialize() {}
