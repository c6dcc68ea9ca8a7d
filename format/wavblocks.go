package format

import (
	"io"

	"flowgraph/block"
	"flowgraph/flowerr"
	"flowgraph/sampletype"
)

// WAVSource reads a mono Real32 stream from a WAV file, validating the
// header against the channel count the caller declared at construction
// (spec.md invariant 9's NumChannelsMismatch case).
type WAVSource struct {
	id            string
	r             io.Reader
	wantChannels  int
	header        WAVHeader
	sampleFormat  SampleFormat
	remainingBytes int
	rate          float64
}

// NewWAVSource constructs a WAV source reading from r, expecting
// wantChannels channels (validated against the file's declared channel
// count during Initialize).
func NewWAVSource(id string, r io.Reader, wantChannels int) *WAVSource {
	return &WAVSource{id: id, r: r, wantChannels: wantChannels}
}

func (s *WAVSource) ID() string          { return s.id }
func (s *WAVSource) Inputs() []block.Port  { return nil }
func (s *WAVSource) Outputs() []block.Port {
	return []block.Port{{Name: "out1", Dir: block.Output, Type: sampletype.Real32}}
}

func (s *WAVSource) Initialize(alloc block.Allocator) error {
	h, err := ReadWAVHeader(s.r)
	if err != nil {
		return err
	}
	if int(h.NumChannels) != s.wantChannels {
		return flowerr.New(flowerr.NumChannelsMismatch, "WAVSource.Initialize",
			"file declares channels that do not match the requested count")
	}
	sf, err := bitsSampleFormat(h.BitsPerSample)
	if err != nil {
		return err
	}
	s.header = h
	s.sampleFormat = sf
	s.remainingBytes = int(h.DataSize)
	s.rate = float64(h.SampleRate)
	return nil
}

func (s *WAVSource) SetRate(inputRates []float64) []float64 { return []float64{s.rate} }

func (s *WAVSource) Process(ins []block.Reader, outs []block.Writer) block.ProcessResult {
	w := outs[0].(*block.RealWriter)
	bpe := s.sampleFormat.BytesPerElement()
	if s.remainingBytes <= 0 {
		return block.EndOfStream()
	}
	view := w.Reserve(4096)
	wantBytes := len(view) * bpe
	if wantBytes > s.remainingBytes {
		wantBytes = s.remainingBytes
	}
	if wantBytes == 0 {
		return block.EndOfStream()
	}
	buf := make([]byte, wantBytes)
	n, err := io.ReadFull(s.r, buf)
	if err != nil && n == 0 {
		return block.ProcessError(flowerr.Wrap(flowerr.IOError, "WAVSource.Process", err))
	}
	buf = buf[:n]
	s.remainingBytes -= n
	samples := BytesToReal(s.sampleFormat, buf)
	copy(view, samples)
	return block.SamplesResult(nil, []int{len(samples)})
}

func (s *WAVSource) Deinitialize() {}

// WAVSink writes a mono Real32 stream to a WAV file at the given bit
// depth and sample rate. It buffers encoded PCM bytes until
// Deinitialize, when the final size is known and the header can be
// written.
type WAVSink struct {
	id            string
	w             io.Writer
	channels      int
	bitsPerSample uint16
	sampleRate    uint32
	sampleFormat  SampleFormat
	buf           []byte
}

// NewWAVSink constructs a WAV sink writing to w with the given channel
// count, bit depth, and sample rate.
func NewWAVSink(id string, w io.Writer, channels int, bitsPerSample uint16, sampleRate uint32) *WAVSink {
	return &WAVSink{id: id, w: w, channels: channels, bitsPerSample: bitsPerSample, sampleRate: sampleRate}
}

func (s *WAVSink) ID() string { return s.id }
func (s *WAVSink) Inputs() []block.Port {
	return []block.Port{{Name: "in1", Dir: block.Input, Type: sampletype.Real32}}
}
func (s *WAVSink) Outputs() []block.Port { return nil }

func (s *WAVSink) Initialize(alloc block.Allocator) error {
	sf, err := bitsSampleFormat(s.bitsPerSample)
	if err != nil {
		return err
	}
	s.sampleFormat = sf
	return nil
}

func (s *WAVSink) SetRate(inputRates []float64) []float64 { return nil }

func (s *WAVSink) Process(ins []block.Reader, outs []block.Writer) block.ProcessResult {
	r := ins[0].(*block.RealReader)
	data, eos := r.Peek(4096)
	if len(data) == 0 {
		if eos {
			return block.EndOfStream()
		}
		return block.SamplesResult([]int{0}, nil)
	}
	s.buf = RealToBytes(s.sampleFormat, data, s.buf)
	return block.SamplesResult([]int{len(data)}, nil)
}

func (s *WAVSink) Deinitialize() {
	h := WAVHeader{
		NumChannels:   uint16(s.channels),
		SampleRate:    s.sampleRate,
		BitsPerSample: s.bitsPerSample,
		DataSize:      uint32(len(s.buf)),
	}
	if err := WriteWAVHeader(s.w, h); err != nil {
		return
	}
	_, _ = s.w.Write(s.buf)
}
