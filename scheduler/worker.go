package scheduler

import (
	"flowgraph/block"
	"flowgraph/internal/platform"
)

// peekLen reports how many elements are available on r without
// consuming them, and whether it is at EOS with nothing left. It exists
// so the scheduler's worker loop can implement the spec's step 1/2
// (peek, then check EOS) without depending on ring's type parameter.
func peekLen(r block.Reader, n int) (avail int, eos bool) {
	switch rr := r.(type) {
	case *block.RealReader:
		data, e := rr.Peek(n)
		return len(data), e
	case *block.ComplexReader:
		data, e := rr.Peek(n)
		return len(data), e
	case *block.ByteReader:
		data, e := rr.Peek(n)
		return len(data), e
	default:
		panic("scheduler: unsupported Reader type")
	}
}

// peekDiscard peeks and immediately consumes whatever was available, so
// a dangling output's drain goroutine never retains samples. It reports
// whether the buffer reached EOS with nothing left.
func peekDiscard(r block.Reader, n int) (eos bool) {
	switch rr := r.(type) {
	case *block.RealReader:
		data, e := rr.Peek(n)
		rr.Consume(len(data))
		return e
	case *block.ComplexReader:
		data, e := rr.Peek(n)
		rr.Consume(len(data))
		return e
	case *block.ByteReader:
		data, e := rr.Peek(n)
		rr.Consume(len(data))
		return e
	default:
		panic("scheduler: unsupported Reader type")
	}
}

func consume(r block.Reader, k int) {
	switch rr := r.(type) {
	case *block.RealReader:
		rr.Consume(k)
	case *block.ComplexReader:
		rr.Consume(k)
	case *block.ByteReader:
		rr.Consume(k)
	default:
		panic("scheduler: unsupported Reader type")
	}
}

func reserveLen(w block.Writer, n int) int {
	switch ww := w.(type) {
	case *block.RealWriter:
		return len(ww.Reserve(n))
	case *block.ComplexWriter:
		return len(ww.Reserve(n))
	case *block.ByteWriter:
		return len(ww.Reserve(n))
	default:
		panic("scheduler: unsupported Writer type")
	}
}

func commit(w block.Writer, k int) {
	switch ww := w.(type) {
	case *block.RealWriter:
		ww.Commit(k)
	case *block.ComplexWriter:
		ww.Commit(k)
	case *block.ByteWriter:
		ww.Commit(k)
	default:
		panic("scheduler: unsupported Writer type")
	}
}

func closeWriter(w block.Writer) {
	switch ww := w.(type) {
	case *block.RealWriter:
		ww.Close()
	case *block.ComplexWriter:
		ww.Close()
	case *block.ByteWriter:
		ww.Close()
	default:
		panic("scheduler: unsupported Writer type")
	}
}

// runWorker is the per-block worker loop of spec.md §4.4: a source
// skips the input-peek/EOS-check steps and only produces; any other
// block peeks its inputs, treats any input being empty-at-EOS as
// terminal for the whole block (the spec's default "any EOS terminates
// the block" policy), otherwise reserves output space and calls
// Process.
func (s *Scheduler) runWorker(b block.Block) {
	defer s.wg.Done()

	ins := s.inputs[b]
	outs := s.outputs[b]
	isSource := len(ins) == 0
	stopFlag := s.sourceStop[b]

	logger := platform.Log()
	finish := func(err error) {
		for _, w := range outs {
			closeWriter(w)
		}
		if err != nil {
			logger.Debug("process error", "block", b.ID(), "err", err)
			s.recordErr(err)
			s.events.PublishBlockError(b.ID(), err)
		}
		logger.Debug("deinitialize", "block", b.ID())
		b.Deinitialize()
		s.events.PublishEOS(b.ID())
	}

	for {
		if isSource {
			if stopFlag.Load() {
				finish(nil)
				return
			}
		} else {
			terminal := false
			for _, r := range ins {
				if avail, eos := peekLen(r, chunkSize); avail == 0 && eos {
					terminal = true
					break
				}
			}
			if terminal {
				finish(nil)
				return
			}
		}

		for _, w := range outs {
			reserveLen(w, chunkSize)
		}

		result := b.Process(ins, outs)
		if result.EOS {
			finish(result.Err)
			return
		}
		for i, r := range ins {
			if i < len(result.Consumed) {
				consume(r, result.Consumed[i])
			}
		}
		for j, w := range outs {
			if j < len(result.Produced) {
				commit(w, result.Produced[j])
			}
		}
	}
}
