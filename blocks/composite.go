package blocks

import (
	"flowgraph/block"
	"flowgraph/sampletype"
)

// ChainedScale is a composite block: two Scale blocks in series, each
// multiplying by factor, so the overall effect is factor*factor. It
// exists to exercise composite expansion (spec.md §4.1/§9): its own
// Inputs/Outputs are aliased to the first and second inner Scale's
// ports, and Initialize/SetRate/Process/Deinitialize are never called
// on it directly by the scheduler.
type ChainedScale struct {
	id     string
	first  *Scale
	second *Scale
}

// NewChainedScale builds a composite applying factor twice in series.
func NewChainedScale(id string, factor float32) *ChainedScale {
	return &ChainedScale{
		id:     id,
		first:  NewScale(id+".stage1", factor),
		second: NewScale(id+".stage2", factor),
	}
}

func (c *ChainedScale) ID() string { return c.id }
func (c *ChainedScale) Inputs() []block.Port {
	return []block.Port{{Name: "in1", Dir: block.Input, Type: sampletype.Real32}}
}
func (c *ChainedScale) Outputs() []block.Port {
	return []block.Port{{Name: "out1", Dir: block.Output, Type: sampletype.Real32}}
}

// Initialize/SetRate/Process/Deinitialize on a Composite are never
// invoked by the scheduler (Expand replaces it before validation), but
// the Block interface still requires them to be implemented.
func (c *ChainedScale) Initialize(alloc block.Allocator) error  { return nil }
func (c *ChainedScale) SetRate(inputRates []float64) []float64 { return inputRates }
func (c *ChainedScale) Process(ins []block.Reader, outs []block.Writer) block.ProcessResult {
	return block.EndOfStream()
}
func (c *ChainedScale) Deinitialize() {}

// Expand returns the two inner Scale blocks wired in series, with this
// composite's own in1/out1 aliased to the first stage's input and the
// second stage's output.
func (c *ChainedScale) Expand() (blocksOut []block.Block, edges []block.Edge, aliases []block.PortAlias) {
	blocksOut = []block.Block{c.first, c.second}
	edges = []block.Edge{
		{Src: c.first, SrcPort: 0, Dst: c.second, DstPort: 0},
	}
	aliases = []block.PortAlias{
		{Dir: block.Input, Index: 0, Inner: c.first, InnerIndex: 0},
		{Dir: block.Output, Index: 0, Inner: c.second, InnerIndex: 0},
	}
	return blocksOut, edges, aliases
}
