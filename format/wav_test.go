package format

import (
	"bytes"
	"testing"

	"flowgraph/block"
	"flowgraph/flowerr"
	"flowgraph/sampletype"
)

func writeTestWAV(t *testing.T, samples []float32) []byte {
	t.Helper()
	var buf bytes.Buffer
	pcm := RealToBytes(S16LE, samples, nil)
	err := WriteWAVHeader(&buf, WAVHeader{NumChannels: 1, SampleRate: 8000, BitsPerSample: 16, DataSize: uint32(len(pcm))})
	if err != nil {
		t.Fatalf("WriteWAVHeader: %v", err)
	}
	buf.Write(pcm)
	return buf.Bytes()
}

func TestWAVRoundTrip(t *testing.T) {
	samples := []float32{0, 0.5, -0.5, 1, -1}
	raw := writeTestWAV(t, samples)

	h, err := ReadWAVHeader(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("ReadWAVHeader: %v", err)
	}
	if h.NumChannels != 1 || h.SampleRate != 8000 || h.BitsPerSample != 16 {
		t.Fatalf("unexpected header %+v", h)
	}

	pcm := raw[44:]
	got := BytesToReal(S16LE, pcm)
	for i, want := range samples {
		if got[i]-want > 1.0/32767.5+1e-6 || want-got[i] > 1.0/32767.5+1e-6 {
			t.Errorf("sample %d = %v, want %v", i, got[i], want)
		}
	}
}

func TestWAVHeaderCorruptionYieldsInvalidHeader(t *testing.T) {
	raw := writeTestWAV(t, []float32{0, 1})
	for i := 0; i < 16; i++ { // corrupt within RIFF/WAVE/fmt tag region
		if i == 4 || i == 5 || i == 6 || i == 7 {
			continue // riff size field, not a tag
		}
		corrupt := append([]byte(nil), raw...)
		corrupt[i] ^= 0xFF
		_, err := ReadWAVHeader(bytes.NewReader(corrupt))
		if flowerr.Of(err) != flowerr.InvalidHeader {
			t.Errorf("byte %d: got code %v, want InvalidHeader", i, flowerr.Of(err))
		}
	}
}

func TestWAVHeaderBadAudioFormat(t *testing.T) {
	raw := writeTestWAV(t, []float32{0})
	raw[20] = 2 // audio_format field, little-endian low byte
	_, err := ReadWAVHeader(bytes.NewReader(raw))
	if flowerr.Of(err) != flowerr.UnsupportedAudioFormat {
		t.Fatalf("got %v, want UnsupportedAudioFormat", err)
	}
}

func TestWAVSourceNumChannelsMismatch(t *testing.T) {
	raw := writeTestWAV(t, []float32{0, 1})
	src := NewWAVSource("src", bytes.NewReader(raw), 2)
	err := src.Initialize(block.NewAllocator())
	if flowerr.Of(err) != flowerr.NumChannelsMismatch {
		t.Fatalf("got %v, want NumChannelsMismatch", err)
	}
}

func TestWAVSourceReadsSamples(t *testing.T) {
	samples := []float32{0, 0.5, -0.5}
	raw := writeTestWAV(t, samples)
	src := NewWAVSource("src", bytes.NewReader(raw), 1)
	if err := src.Initialize(block.NewAllocator()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	src.SetRate(nil)

	w, _, _ := block.NewStreamBuffer(sampletype.Real32, 16, 1)
	res := src.Process(nil, []block.Writer{w})
	if res.EOS {
		t.Fatal("unexpected EOS on first read")
	}
	if res.Produced[0] != len(samples) {
		t.Fatalf("produced %d, want %d", res.Produced[0], len(samples))
	}
}
