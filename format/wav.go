package format

import (
	"encoding/binary"
	"io"

	"flowgraph/flowerr"
)

// WAVHeader is the subset of a RIFF/WAVE header the graph's framing
// contract cares about (spec.md §6): channel count, sample rate, bit
// depth, and the declared PCM payload size.
type WAVHeader struct {
	NumChannels   uint16
	SampleRate    uint32
	BitsPerSample uint16
	DataSize      uint32
}

func readTag(r io.Reader, want string) error {
	var tag [4]byte
	if _, err := io.ReadFull(r, tag[:]); err != nil {
		return flowerr.Wrap(flowerr.IOError, "ReadWAVHeader", err)
	}
	if string(tag[:]) != want {
		return flowerr.New(flowerr.InvalidHeader, "ReadWAVHeader", "expected tag "+want+", got "+string(tag[:]))
	}
	return nil
}

// ReadWAVHeader parses a minimal canonical RIFF/WAVE/fmt /data header,
// in that fixed order (no extension chunks), returning the decoded
// fields or the specific flowerr.Code spec.md invariant 9 requires.
func ReadWAVHeader(r io.Reader) (WAVHeader, error) {
	if err := readTag(r, "RIFF"); err != nil {
		return WAVHeader{}, err
	}
	var riffSize uint32
	if err := binary.Read(r, binary.LittleEndian, &riffSize); err != nil {
		return WAVHeader{}, flowerr.Wrap(flowerr.IOError, "ReadWAVHeader", err)
	}
	if err := readTag(r, "WAVE"); err != nil {
		return WAVHeader{}, err
	}
	if err := readTag(r, "fmt "); err != nil {
		return WAVHeader{}, err
	}
	var fmtSize uint32
	if err := binary.Read(r, binary.LittleEndian, &fmtSize); err != nil {
		return WAVHeader{}, flowerr.Wrap(flowerr.IOError, "ReadWAVHeader", err)
	}
	if fmtSize < 16 {
		return WAVHeader{}, flowerr.New(flowerr.InvalidHeader, "ReadWAVHeader", "fmt chunk too short")
	}
	fmtBody := make([]byte, fmtSize)
	if _, err := io.ReadFull(r, fmtBody); err != nil {
		return WAVHeader{}, flowerr.Wrap(flowerr.IOError, "ReadWAVHeader", err)
	}
	audioFormat := binary.LittleEndian.Uint16(fmtBody[0:2])
	numChannels := binary.LittleEndian.Uint16(fmtBody[2:4])
	sampleRate := binary.LittleEndian.Uint32(fmtBody[4:8])
	bitsPerSample := binary.LittleEndian.Uint16(fmtBody[14:16])

	if audioFormat != 1 {
		return WAVHeader{}, flowerr.New(flowerr.UnsupportedAudioFormat, "ReadWAVHeader", "audio_format != 1 (PCM)")
	}
	if bitsPerSample != 8 && bitsPerSample != 16 && bitsPerSample != 32 {
		return WAVHeader{}, flowerr.New(flowerr.UnsupportedBitsPerSample, "ReadWAVHeader", "unsupported bits_per_sample")
	}

	if err := readTag(r, "data"); err != nil {
		return WAVHeader{}, err
	}
	var dataSize uint32
	if err := binary.Read(r, binary.LittleEndian, &dataSize); err != nil {
		return WAVHeader{}, flowerr.Wrap(flowerr.IOError, "ReadWAVHeader", err)
	}

	return WAVHeader{
		NumChannels:   numChannels,
		SampleRate:    sampleRate,
		BitsPerSample: bitsPerSample,
		DataSize:      dataSize,
	}, nil
}

// WriteWAVHeader writes a canonical 44-byte RIFF/WAVE/fmt /data header
// for the given fields.
func WriteWAVHeader(w io.Writer, h WAVHeader) error {
	blockAlign := h.NumChannels * (h.BitsPerSample / 8)
	byteRate := h.SampleRate * uint32(blockAlign)

	if _, err := w.Write([]byte("RIFF")); err != nil {
		return flowerr.Wrap(flowerr.IOError, "WriteWAVHeader", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(36+h.DataSize)); err != nil {
		return flowerr.Wrap(flowerr.IOError, "WriteWAVHeader", err)
	}
	if _, err := w.Write([]byte("WAVE")); err != nil {
		return flowerr.Wrap(flowerr.IOError, "WriteWAVHeader", err)
	}
	if _, err := w.Write([]byte("fmt ")); err != nil {
		return flowerr.Wrap(flowerr.IOError, "WriteWAVHeader", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(16)); err != nil {
		return flowerr.Wrap(flowerr.IOError, "WriteWAVHeader", err)
	}
	fields := []any{
		uint16(1), h.NumChannels, h.SampleRate, byteRate, blockAlign, h.BitsPerSample,
	}
	for _, f := range fields {
		if err := binary.Write(w, binary.LittleEndian, f); err != nil {
			return flowerr.Wrap(flowerr.IOError, "WriteWAVHeader", err)
		}
	}
	if _, err := w.Write([]byte("data")); err != nil {
		return flowerr.Wrap(flowerr.IOError, "WriteWAVHeader", err)
	}
	if err := binary.Write(w, binary.LittleEndian, h.DataSize); err != nil {
		return flowerr.Wrap(flowerr.IOError, "WriteWAVHeader", err)
	}
	return nil
}

// bitsSampleFormat maps a WAV bit depth to the raw-IQ SampleFormat that
// encodes it identically: 8-bit unsigned with offset 127.5, 16/32-bit
// signed little-endian.
func bitsSampleFormat(bits uint16) (SampleFormat, error) {
	switch bits {
	case 8:
		return U8, nil
	case 16:
		return S16LE, nil
	case 32:
		return S32LE, nil
	default:
		return "", flowerr.New(flowerr.UnsupportedBitsPerSample, "bitsSampleFormat", "unsupported bits_per_sample")
	}
}
