package sampletype

import "testing"

func TestBuiltinSizes(t *testing.T) {
	cases := []struct {
		typ  Type
		want int
	}{
		{Real32, 4},
		{Complex32, 8},
		{Byte, 1},
	}
	for _, c := range cases {
		if got := c.typ.Size(); got != c.want {
			t.Errorf("%s.Size() = %d, want %d", c.typ, got, c.want)
		}
		if !c.typ.Valid() {
			t.Errorf("%s should be valid", c.typ)
		}
	}
}

func TestEquality(t *testing.T) {
	if Real32 == Complex32 {
		t.Fatal("distinct types must not compare equal")
	}
	if Real32 != Real32 {
		t.Fatal("same type must compare equal to itself")
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register("fixed16", 2)
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on duplicate registration")
		}
	}()
	Register("fixed16", 2)
}

func TestZeroValueSizePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for unregistered type")
		}
	}()
	var zero Type
	_ = zero.Size()
}
