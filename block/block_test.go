package block

import (
	"testing"

	"flowgraph/sampletype"
)

func TestDefaultName(t *testing.T) {
	if got := DefaultName(Input, 0); got != "in1" {
		t.Errorf("DefaultName(Input,0) = %q, want in1", got)
	}
	if got := DefaultName(Output, 2); got != "out3" {
		t.Errorf("DefaultName(Output,2) = %q, want out3", got)
	}
}

func TestProcessResultConstructors(t *testing.T) {
	r := SamplesResult([]int{4}, []int{4})
	if r.EOS {
		t.Error("SamplesResult set EOS")
	}
	if r.Consumed[0] != 4 || r.Produced[0] != 4 {
		t.Errorf("unexpected counts: %+v", r)
	}

	eos := EndOfStream()
	if !eos.EOS {
		t.Error("EndOfStream() did not set EOS")
	}
}

func TestNewStreamBufferRealRoundTrip(t *testing.T) {
	w, readers, introspect := NewStreamBuffer(sampletype.Real32, 8, 2)
	rw := w.(*RealWriter)

	view := rw.Reserve(3)
	for i := range view {
		view[i] = float32(i + 1)
	}
	rw.Commit(len(view))
	rw.Close()

	for _, r := range readers {
		rr := r.(*RealReader)
		data, eos := rr.Peek(8)
		if eos {
			t.Fatal("unexpected EOS before drain")
		}
		if len(data) != 3 {
			t.Fatalf("got %d elements, want 3", len(data))
		}
		rr.Consume(len(data))
		if _, eos := rr.Peek(8); !eos {
			t.Error("expected EOS after full drain")
		}
	}

	if introspect.Cap() != 8 || introspect.NumReaders() != 2 {
		t.Errorf("introspect = %+v", introspect)
	}
}

func TestNewStreamBufferUnsupportedTypePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for unsupported SampleType")
		}
	}()
	NewStreamBuffer(sampletype.Type{}, 8, 1)
}
