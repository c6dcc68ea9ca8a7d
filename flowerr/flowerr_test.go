package flowerr

import (
	"errors"
	"testing"
)

func TestOfExtractsCodeFromBareCode(t *testing.T) {
	if got := Of(GraphCycle); got != GraphCycle {
		t.Errorf("Of(GraphCycle) = %v, want %v", got, GraphCycle)
	}
}

func TestOfExtractsCodeFromWrapped(t *testing.T) {
	e := New(TypeMismatch, "graph.Connect", "real32 vs complex32")
	if got := Of(e); got != TypeMismatch {
		t.Errorf("Of(e) = %v, want %v", got, TypeMismatch)
	}
}

func TestOfDefaultsToError(t *testing.T) {
	if got := Of(errors.New("boom")); got != Error {
		t.Errorf("Of(plain error) = %v, want %v", got, Error)
	}
}

func TestOfNilIsEmpty(t *testing.T) {
	if got := Of(nil); got != "" {
		t.Errorf("Of(nil) = %v, want empty", got)
	}
}

func TestWrapUnwrap(t *testing.T) {
	cause := errors.New("short read")
	e := Wrap(IOError, "wav.Read", cause)
	if !errors.Is(e, cause) {
		t.Fatal("expected errors.Is to find wrapped cause")
	}
}
