package blocks

import "testing"

import "flowgraph/blocktest"

func TestScaleDoublesSamples(t *testing.T) {
	blocktest.RunReal(t, blocktest.RealCase{
		Block:       NewScale("scale", 2),
		InputRates:  []float64{1000},
		Inputs:      [][]float32{{1, 2, 3, -1}},
		WantOutputs: [][]float32{{2, 4, 6, -2}},
		Tolerance:   1e-6,
	})
}

func TestPassthroughIsIdentity(t *testing.T) {
	blocktest.RunReal(t, blocktest.RealCase{
		Block:       NewPassthrough("pt"),
		InputRates:  []float64{1000},
		Inputs:      [][]float32{{0.25, -0.75, 1}},
		WantOutputs: [][]float32{{0.25, -0.75, 1}},
		Tolerance:   1e-6,
	})
}

func TestByteCountSinkCounts(t *testing.T) {
	sink := NewByteCountSink("sink")
	if err := sink.Initialize(nil); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	defer sink.Deinitialize()

	if got := sink.Count(); got != 0 {
		t.Fatalf("initial count = %d, want 0", got)
	}
}

func TestConstantSourceRate(t *testing.T) {
	src := NewConstantSource("src", 0, 1000)
	rates := src.SetRate(nil)
	if len(rates) != 1 || rates[0] != 1000 {
		t.Fatalf("rates = %v, want [1000]", rates)
	}
}
