// Package blocktest is the Block-Tester harness of spec.md §4.5: it
// wraps a single block, drives it with synthetic inputs in chunks, and
// compares its outputs to expected vectors within a tolerance. It also
// supports a "no expected inputs" mode for source blocks (an empty
// Inputs slice). Grounded on the teacher's hal_integration_test.go
// style (construct the unit under test, drive it through its real
// lifecycle, assert on observable output), using
// github.com/stretchr/testify for tolerance assertions.
package blocktest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"flowgraph/block"
	"flowgraph/sampletype"
)

const defaultChunk = 64
const defaultMaxIterations = 100000

// RealCase drives a block whose ports are all Real32.
type RealCase struct {
	Block          block.Block
	InputRates     []float64
	Inputs         [][]float32 // one full sequence per declared input port
	WantOutputs    [][]float32 // one full sequence per declared output port; nil entries are not compared
	Tolerance      float64
	Chunk          int
	MaxIterations  int
}

// RunReal initializes Block, feeds Inputs to completion (or drives a
// source with no inputs until it signals EndOfStream), and asserts each
// WantOutputs[j] matches what Block actually produced within Tolerance.
func RunReal(t *testing.T, c RealCase) {
	t.Helper()
	chunk := c.Chunk
	if chunk <= 0 {
		chunk = defaultChunk
	}
	maxIter := c.MaxIterations
	if maxIter <= 0 {
		maxIter = defaultMaxIterations
	}

	alloc := block.NewAllocator()
	if err := c.Block.Initialize(alloc); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	defer c.Block.Deinitialize()
	c.Block.SetRate(c.InputRates)

	ins := make([]block.Reader, len(c.Inputs))
	for i, data := range c.Inputs {
		w, readers, _ := block.NewStreamBuffer(sampletype.Real32, len(data)+1, 1)
		rw := w.(*block.RealWriter)
		view := rw.Reserve(len(data))
		copy(view, data)
		rw.Commit(len(view))
		rw.Close()
		ins[i] = readers[0]
	}

	outs := make([]block.Writer, len(c.WantOutputs))
	outReaders := make([]block.Reader, len(c.WantOutputs))
	for j := range c.WantOutputs {
		w, readers, _ := block.NewStreamBuffer(sampletype.Real32, 1<<20, 1)
		outs[j] = w
		outReaders[j] = readers[0]
	}

	for iter := 0; iter < maxIter; iter++ {
		if len(ins) > 0 {
			terminal := false
			for _, r := range ins {
				if data, eos := r.(*block.RealReader).Peek(chunk); len(data) == 0 && eos {
					terminal = true
				}
			}
			if terminal {
				break
			}
		}
		result := c.Block.Process(ins, outs)
		for i, r := range ins {
			if i < len(result.Consumed) {
				r.(*block.RealReader).Consume(result.Consumed[i])
			}
		}
		for j, w := range outs {
			if j < len(result.Produced) {
				w.(*block.RealWriter).Commit(result.Produced[j])
			}
		}
		if result.EOS {
			break
		}
	}
	for _, w := range outs {
		w.(*block.RealWriter).Close()
	}

	for j, reader := range outReaders {
		var got []float32
		for {
			data, eos := reader.(*block.RealReader).Peek(chunk)
			if len(data) == 0 {
				if eos {
					break
				}
				continue
			}
			got = append(got, data...)
			reader.(*block.RealReader).Consume(len(data))
		}
		want := c.WantOutputs[j]
		if want == nil {
			continue
		}
		if !assert.Equal(t, len(want), len(got), "output %d length", j) {
			continue
		}
		for i := range want {
			assert.InDelta(t, want[i], got[i], c.Tolerance, "output %d sample %d", j, i)
		}
	}
}

// ComplexCase drives a block whose ports are all Complex32.
type ComplexCase struct {
	Block         block.Block
	InputRates    []float64
	Inputs        [][]complex64
	WantOutputs   [][]complex64
	Tolerance     float64
	Chunk         int
	MaxIterations int
}

// RunComplex is RunReal's Complex32 counterpart; tolerance is applied
// as the max of the real-part and imaginary-part absolute error, per
// spec.md §4.5.
func RunComplex(t *testing.T, c ComplexCase) {
	t.Helper()
	chunk := c.Chunk
	if chunk <= 0 {
		chunk = defaultChunk
	}
	maxIter := c.MaxIterations
	if maxIter <= 0 {
		maxIter = defaultMaxIterations
	}

	alloc := block.NewAllocator()
	if err := c.Block.Initialize(alloc); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	defer c.Block.Deinitialize()
	c.Block.SetRate(c.InputRates)

	ins := make([]block.Reader, len(c.Inputs))
	for i, data := range c.Inputs {
		w, readers, _ := block.NewStreamBuffer(sampletype.Complex32, len(data)+1, 1)
		rw := w.(*block.ComplexWriter)
		view := rw.Reserve(len(data))
		copy(view, data)
		rw.Commit(len(view))
		rw.Close()
		ins[i] = readers[0]
	}

	outs := make([]block.Writer, len(c.WantOutputs))
	outReaders := make([]block.Reader, len(c.WantOutputs))
	for j := range c.WantOutputs {
		w, readers, _ := block.NewStreamBuffer(sampletype.Complex32, 1<<20, 1)
		outs[j] = w
		outReaders[j] = readers[0]
	}

	for iter := 0; iter < maxIter; iter++ {
		if len(ins) > 0 {
			terminal := false
			for _, r := range ins {
				if data, eos := r.(*block.ComplexReader).Peek(chunk); len(data) == 0 && eos {
					terminal = true
				}
			}
			if terminal {
				break
			}
		}
		result := c.Block.Process(ins, outs)
		for i, r := range ins {
			if i < len(result.Consumed) {
				r.(*block.ComplexReader).Consume(result.Consumed[i])
			}
		}
		for j, w := range outs {
			if j < len(result.Produced) {
				w.(*block.ComplexWriter).Commit(result.Produced[j])
			}
		}
		if result.EOS {
			break
		}
	}
	for _, w := range outs {
		w.(*block.ComplexWriter).Close()
	}

	for j, reader := range outReaders {
		var got []complex64
		for {
			data, eos := reader.(*block.ComplexReader).Peek(chunk)
			if len(data) == 0 {
				if eos {
					break
				}
				continue
			}
			got = append(got, data...)
			reader.(*block.ComplexReader).Consume(len(data))
		}
		want := c.WantOutputs[j]
		if !assert.Equal(t, len(want), len(got), "output %d length", j) {
			continue
		}
		for i := range want {
			errAbs := func(a, b float32) float64 {
				d := float64(a - b)
				if d < 0 {
					d = -d
				}
				return d
			}
			maxErr := errAbs(real(want[i]), real(got[i]))
			if im := errAbs(imag(want[i]), imag(got[i])); im > maxErr {
				maxErr = im
			}
			assert.LessOrEqual(t, maxErr, c.Tolerance, "output %d sample %d", j, i)
		}
	}
}
