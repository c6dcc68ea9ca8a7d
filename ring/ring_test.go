package ring

import (
	"sync"
	"testing"
	"time"
)

func TestSingleReaderOrderPreserved(t *testing.T) {
	b := New[float32](8, 1)
	const n = 500
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		i := 0
		for i < n {
			want := min(3, n-i)
			view := b.WriteReserve(want)
			for j := range view {
				view[j] = float32(i + j)
			}
			b.WriteCommit(len(view))
			i += len(view)
		}
		b.CloseWrite()
	}()

	got := make([]float32, 0, n)
	go func() {
		defer wg.Done()
		for {
			view, eos := b.ReadPeek(0, 5)
			if len(view) == 0 {
				if eos {
					return
				}
				continue
			}
			got = append(got, view...)
			b.ReadConsume(0, len(view))
		}
	}()

	wg.Wait()
	if len(got) != n {
		t.Fatalf("got %d elements, want %d", len(got), n)
	}
	for i, v := range got {
		if v != float32(i) {
			t.Fatalf("element %d = %v, want %v", i, v, float32(i))
		}
	}
}

func TestFanOutEachReaderSeesAll(t *testing.T) {
	b := New[byte](4, 2)
	src := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	go func() {
		for i := 0; i < len(src); {
			view := b.WriteReserve(len(src) - i)
			k := copy(view, src[i:])
			b.WriteCommit(k)
			i += k
		}
		b.CloseWrite()
	}()

	drain := func(reader int) []byte {
		var out []byte
		for {
			view, eos := b.ReadPeek(reader, 3)
			if len(view) == 0 {
				if eos {
					return out
				}
				continue
			}
			out = append(out, view...)
			b.ReadConsume(reader, len(view))
		}
	}

	var wg sync.WaitGroup
	results := make([][]byte, 2)
	wg.Add(2)
	for r := 0; r < 2; r++ {
		r := r
		go func() {
			defer wg.Done()
			results[r] = drain(r)
		}()
	}
	wg.Wait()

	for r, got := range results {
		if len(got) != len(src) {
			t.Fatalf("reader %d got %d bytes, want %d", r, len(got), len(src))
		}
		for i := range src {
			if got[i] != src[i] {
				t.Fatalf("reader %d byte %d = %d, want %d", r, i, got[i], src[i])
			}
		}
	}
}

func TestBackpressureBoundsProducer(t *testing.T) {
	b := New[byte](4, 1)
	done := make(chan struct{})
	go func() {
		for {
			view := b.WriteReserve(100)
			b.WriteCommit(len(view))
			select {
			case <-done:
				return
			default:
			}
		}
	}()

	time.Sleep(10 * time.Millisecond)
	if occ := b.Occupancy(); occ > b.Cap() {
		t.Fatalf("occupancy %d exceeds capacity %d", occ, b.Cap())
	}
	close(done)
}

func TestReadPeekReturnsEOSOnlyWhenDrained(t *testing.T) {
	b := New[byte](4, 1)
	view := b.WriteReserve(2)
	b.WriteCommit(copy(view, []byte{9, 9}))
	b.CloseWrite()

	v, eos := b.ReadPeek(0, 4)
	if eos {
		t.Fatal("must not report EOS while unread data remains")
	}
	b.ReadConsume(0, len(v))

	v, eos = b.ReadPeek(0, 4)
	if len(v) != 0 || !eos {
		t.Fatalf("expected empty+EOS after drain, got view=%v eos=%v", v, eos)
	}
}

func TestRegistry(t *testing.T) {
	b := New[float32](4, 1)
	h := Register(b)
	if Get(h) == nil {
		t.Fatal("expected registered buffer to be retrievable")
	}
	Close(h)
	if Get(h) != nil {
		t.Fatal("expected buffer to be gone after Close")
	}
}
