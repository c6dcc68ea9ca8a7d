package graph

import (
	"testing"
	"time"

	"flowgraph/block"
	"flowgraph/blocks"
	"flowgraph/flowerr"
	"flowgraph/sampletype"
)

func TestSourceSinkDegenerate(t *testing.T) {
	src := blocks.NewConstantByteSource("src", 0, 1000)
	sink := blocks.NewByteCountSink("sink")

	g := New(Options{})
	if err := g.Connect(src, sink); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if err := g.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	time.Sleep(50 * time.Millisecond)
	if err := g.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if sink.Count() == 0 {
		t.Error("expected sink to have consumed samples")
	}
}

func TestFanOutBothSinksSeeSameCount(t *testing.T) {
	src := blocks.NewConstantByteSource("src", 1, 1000)
	sinkA := blocks.NewByteCountSink("sinkA")
	sinkB := blocks.NewByteCountSink("sinkB")

	g := New(Options{})
	if err := g.ConnectPort(src, "out1", sinkA, "in1"); err != nil {
		t.Fatalf("ConnectPort A: %v", err)
	}
	if err := g.ConnectPort(src, "out1", sinkB, "in1"); err != nil {
		t.Fatalf("ConnectPort B: %v", err)
	}
	if err := g.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	time.Sleep(50 * time.Millisecond)
	if err := g.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if sinkA.Count() == 0 || sinkB.Count() == 0 {
		t.Fatal("expected both sinks to consume samples")
	}
	if sinkA.Count() != sinkB.Count() {
		t.Fatalf("sinkA consumed %d, sinkB consumed %d, want equal", sinkA.Count(), sinkB.Count())
	}
}

type fakeComplexSource struct{ id string }

func (f *fakeComplexSource) ID() string           { return f.id }
func (f *fakeComplexSource) Inputs() []block.Port { return nil }
func (f *fakeComplexSource) Outputs() []block.Port {
	return []block.Port{{Name: "out1", Dir: block.Output, Type: sampletype.Complex32}}
}
func (f *fakeComplexSource) Initialize(alloc block.Allocator) error   { return nil }
func (f *fakeComplexSource) SetRate(inputRates []float64) []float64  { return []float64{1000} }
func (f *fakeComplexSource) Process(ins []block.Reader, outs []block.Writer) block.ProcessResult {
	return block.EndOfStream()
}
func (f *fakeComplexSource) Deinitialize() {}

func TestTypeMismatchFromStart(t *testing.T) {
	src := &fakeComplexSource{id: "csrc"}
	sink := blocks.NewByteCountSink("sink") // expects Byte, src produces Complex32

	g := New(Options{})
	if err := g.ConnectPort(src, "out1", sink, "in1"); err != nil {
		t.Fatalf("ConnectPort: %v", err)
	}
	err := g.Start()
	if flowerr.Of(err) != flowerr.TypeMismatch {
		t.Fatalf("got %v, want TypeMismatch", err)
	}
}

func TestCycleFromStart(t *testing.T) {
	a := blocks.NewPassthrough("a")
	b := blocks.NewPassthrough("b")

	g := New(Options{})
	if err := g.ConnectPort(a, "out1", b, "in1"); err != nil {
		t.Fatalf("ConnectPort a->b: %v", err)
	}
	if err := g.ConnectPort(b, "out1", a, "in1"); err != nil {
		t.Fatalf("ConnectPort b->a: %v", err)
	}
	err := g.Start()
	if flowerr.Of(err) != flowerr.GraphCycle {
		t.Fatalf("got %v, want GraphCycle", err)
	}
}

func TestCompositeExpansionWiresInnerBlocks(t *testing.T) {
	src := blocks.NewConstantSource("src", 1, 1000)
	chained := blocks.NewChainedScale("chain", 2)
	sink := blocks.NewByteCountSink("sink") // not connected; the test only inspects expand()

	g := New(Options{})
	if err := g.ConnectPort(src, "out1", chained, "in1"); err != nil {
		t.Fatalf("ConnectPort src->chain: %v", err)
	}
	_ = sink

	prims, edges, err := g.expand()
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if len(prims) != 3 { // src, stage1, stage2
		t.Fatalf("expand produced %d primitive blocks, want 3", len(prims))
	}
	foundSrcToStage1 := false
	for _, e := range edges {
		if e.Src == src && e.Dst.ID() == "chain.stage1" {
			foundSrcToStage1 = true
		}
	}
	if !foundSrcToStage1 {
		t.Fatal("expected src to be rewired directly to chain's first inner stage")
	}
}

func TestUnconnectedInputFromStart(t *testing.T) {
	a := blocks.NewPassthrough("a")
	sink := blocks.NewByteCountSink("sink")

	g := New(Options{})
	g.register(a) // registered but a's input is never connected
	_ = sink

	err := g.Start()
	if flowerr.Of(err) != flowerr.UnconnectedInput {
		t.Fatalf("got %v, want UnconnectedInput", err)
	}
}
