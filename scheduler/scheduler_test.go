package scheduler

import (
	"errors"
	"testing"

	"flowgraph/block"
	"flowgraph/graphevents"
	"flowgraph/sampletype"
)

type countingBlock struct {
	id          string
	initialized bool
	deinit      *int
	failInit    bool
}

func (b *countingBlock) ID() string           { return b.id }
func (b *countingBlock) Inputs() []block.Port { return nil }
func (b *countingBlock) Outputs() []block.Port {
	return []block.Port{{Name: "out1", Dir: block.Output, Type: sampletype.Real32}}
}
func (b *countingBlock) Initialize(alloc block.Allocator) error {
	if b.failInit {
		return errors.New("boom")
	}
	b.initialized = true
	return nil
}
func (b *countingBlock) SetRate(inputRates []float64) []float64 { return []float64{1000} }
func (b *countingBlock) Process(ins []block.Reader, outs []block.Writer) block.ProcessResult {
	return block.EndOfStream()
}
func (b *countingBlock) Deinitialize() { *b.deinit++ }

func TestStartRollsBackOnInitFailure(t *testing.T) {
	var deinitCount int
	ok := &countingBlock{id: "ok", deinit: &deinitCount}
	failing := &countingBlock{id: "failing", deinit: &deinitCount, failInit: true}

	s := New([]block.Block{ok, failing}, nil, nil, graphevents.New(), Options{})
	err := s.Start()
	if err == nil {
		t.Fatal("expected Start to fail")
	}
	if !ok.initialized {
		t.Error("expected ok block to have been initialized before rollback")
	}
	if deinitCount != 1 {
		t.Errorf("deinit count = %d, want 1 (only the successfully initialized block)", deinitCount)
	}
}

func TestStartSpawnsWorkersAndStopReturnsNil(t *testing.T) {
	src := &countingBlock{id: "src", deinit: new(int)}
	s := New([]block.Block{src}, nil, nil, graphevents.New(), Options{})
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	<-s.Done()
	if err := s.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
}
