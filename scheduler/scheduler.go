// Package scheduler runs a validated, rate-propagated flow-graph: one
// goroutine per primitive block, wired to its neighbors' StreamBuffers,
// with cooperative shutdown via a per-source stop flag and first-error
// capture surfaced from Stop. Grounded on the teacher's
// services/hal/gpio_worker.go and worker.go — one goroutine per managed
// resource, lifecycle driven by an explicit Start/Stop pair rather than
// a raw ctx.Done() — generalized from a fixed device-worker set to an
// arbitrary topologically-ordered block list.
package scheduler

import (
	"sync"
	"sync/atomic"
	"time"

	"flowgraph/block"
	"flowgraph/flowerr"
	"flowgraph/graphevents"
	"flowgraph/internal/mathx"
	"flowgraph/internal/platform"
	"flowgraph/internal/timex"
	"flowgraph/ring"
	"flowgraph/sampletype"
)

// Options configures a Scheduler. BufferCapacity is the element
// capacity given to every edge's StreamBuffer. Zero means "auto-size
// from defaultBufferBytes per port's element size" rather than one
// fixed element count for every type.
type Options struct {
	Debug          bool
	BufferCapacity int
}

const chunkSize = 8192

// defaultBufferBytes is spec.md's "typical default: 64 KiB per port
// type" buffer budget. A port's actual element capacity is derived
// from this byte budget and its SampleType's element size, so a Byte
// port and a Complex32 port get comparable backpressure latency in
// wall-clock terms instead of comparable element counts.
const defaultBufferBytes = 64 * 1024

// bufferCapacity returns the element capacity for a port of type t:
// the explicit override in opts if set, otherwise defaultBufferBytes
// divided (rounding up) by the element's byte size.
func (s *Scheduler) bufferCapacity(t sampletype.Type) int {
	if s.opts.BufferCapacity > 0 {
		return s.opts.BufferCapacity
	}
	return int(mathx.CeilDiv(uint64(defaultBufferBytes), uint64(t.Size())))
}

// Scheduler owns the wiring and worker goroutines for one Start/Stop
// cycle of a Flowgraph. It is not reusable after Stop.
type Scheduler struct {
	order  []block.Block
	edges  []block.Edge
	rates  map[block.Block][]float64
	events *graphevents.Bus
	opts   Options

	inputs     map[block.Block][]block.Reader
	outputs    map[block.Block][]block.Writer
	introspect map[block.Block][]ring.Introspectable
	sourceStop map[block.Block]*atomic.Bool

	initialized []block.Block

	wg      sync.WaitGroup
	doneCh  chan struct{}
	errMu   sync.Mutex
	firstErr error
}

// New builds a Scheduler for a topologically ordered set of primitive
// blocks and their resolved edges. rates is the per-block,
// per-output-port rate computed by rate propagation; the scheduler does
// not use it directly beyond making it available to a debug-stats
// logger, since rate is purely a validation-time quantity once workers
// are running.
func New(order []block.Block, edges []block.Edge, rates map[block.Block][]float64, events *graphevents.Bus, opts Options) *Scheduler {
	return &Scheduler{
		order:  order,
		edges:  edges,
		rates:  rates,
		events: events,
		opts:   opts,
		doneCh: make(chan struct{}),
	}
}

// Done returns a channel closed once every worker has exited, whether
// by natural end-of-stream or because Stop signaled shutdown.
func (s *Scheduler) Done() <-chan struct{} { return s.doneCh }

// Start initializes every block in topological order, allocates one
// StreamBuffer per output port, and spawns one worker goroutine per
// block. On an Initialize failure, already-initialized blocks are
// deinitialized in reverse order and the error is returned; no worker
// is spawned.
func (s *Scheduler) Start() error {
	logger := platform.Log()
	alloc := block.NewAllocator()
	for _, b := range s.order {
		if err := b.Initialize(alloc); err != nil {
			logger.Debug("initialize failed", "block", b.ID(), "err", err)
			s.rollback()
			return flowerr.Wrap(flowerr.Of(err), "Initialize", err)
		}
		logger.Debug("initialize", "block", b.ID())
		s.initialized = append(s.initialized, b)
		s.events.PublishInitialized(b.ID())
	}

	s.wireBuffers()

	s.sourceStop = map[block.Block]*atomic.Bool{}
	for _, b := range s.order {
		if len(b.Inputs()) == 0 {
			s.sourceStop[b] = &atomic.Bool{}
		}
	}

	for _, b := range s.order {
		s.wg.Add(1)
		go s.runWorker(b)
	}

	go func() {
		s.wg.Wait()
		close(s.doneCh)
	}()

	if s.opts.Debug {
		go s.runDebugStats()
	}

	return nil
}

func (s *Scheduler) rollback() {
	logger := platform.Log()
	for i := len(s.initialized) - 1; i >= 0; i-- {
		logger.Debug("deinitialize", "block", s.initialized[i].ID(), "reason", "rollback")
		s.initialized[i].Deinitialize()
	}
	s.initialized = nil
}

// wireBuffers allocates a StreamBuffer per output port, one reader per
// fan-out edge (plus an auto-draining reader for a dangling output with
// no consumers), and builds each block's positional input Reader slice.
func (s *Scheduler) wireBuffers() {
	s.inputs = map[block.Block][]block.Reader{}
	s.outputs = map[block.Block][]block.Writer{}
	s.introspect = map[block.Block][]ring.Introspectable{}

	for _, b := range s.order {
		s.inputs[b] = make([]block.Reader, len(b.Inputs()))
	}

	for _, b := range s.order {
		outs := b.Outputs()
		writers := make([]block.Writer, len(outs))
		introspects := make([]ring.Introspectable, len(outs))
		for portIdx, port := range outs {
			var consumers []block.Edge
			for _, e := range s.edges {
				if e.Src == b && e.SrcPort == portIdx {
					consumers = append(consumers, e)
				}
			}
			numReaders := len(consumers)
			if numReaders == 0 {
				numReaders = 1
			}
			w, readers, introspect := block.NewStreamBuffer(port.Type, s.bufferCapacity(port.Type), numReaders)
			writers[portIdx] = w
			introspects[portIdx] = introspect
			ring.Register(introspect)

			if len(consumers) == 0 {
				go drainUnused(readers[0])
				continue
			}
			for i, e := range consumers {
				s.inputs[e.Dst][e.DstPort] = readers[i]
			}
		}
		s.outputs[b] = writers
		s.introspect[b] = introspects
	}
}

// drainUnused keeps a dangling output port's buffer from ever filling,
// so an output with zero consumers never blocks its producer.
func drainUnused(r block.Reader) {
	for {
		eos := peekDiscard(r, chunkSize)
		if eos {
			return
		}
	}
}

// Stop signals every source to close, waits for every worker to exit,
// and returns the first error any worker recorded.
func (s *Scheduler) Stop() error {
	for _, flag := range s.sourceStop {
		flag.Store(true)
	}
	s.wg.Wait()
	s.errMu.Lock()
	err := s.firstErr
	s.errMu.Unlock()
	s.events.PublishGraphStopped(err)
	return err
}

func (s *Scheduler) recordErr(err error) {
	if err == nil {
		return
	}
	s.errMu.Lock()
	defer s.errMu.Unlock()
	if s.firstErr == nil {
		s.firstErr = err
	}
}

func (s *Scheduler) runDebugStats() {
	logger := platform.Log()
	interval := timex.ChunkDuration(1, chunkSize)
	if interval <= 0 {
		return
	}
	for {
		select {
		case <-s.doneCh:
			return
		default:
		}
		for _, b := range s.order {
			var rate float64
			if rates := s.rates[b]; len(rates) > 0 {
				rate = rates[0]
			}
			for i, in := range s.introspect[b] {
				logger.Debug("edge occupancy", "block", b.ID(), "port", i, "rate", rate, "occupancy", in.Occupancy(), "capacity", in.Cap())
			}
		}
		select {
		case <-s.doneCh:
			return
		case <-time.After(interval):
		}
	}
}
