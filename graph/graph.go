// Package graph is the flow-graph builder: connect, composite
// expansion, validation, rate propagation, and the Flowgraph handle a
// host program starts/stops/runs. Grounded on the teacher's
// services/hal.service — a single owning struct built once, wired
// through a handful of constructor-supplied collaborators, with a
// dedicated Run entry point — generalized from one fixed device topology
// to an arbitrary user-supplied block topology.
package graph

import (
	"context"
	"sync"

	"flowgraph/block"
	"flowgraph/flowerr"
	"flowgraph/graphevents"
	"flowgraph/internal/interrupt"
	"flowgraph/internal/platform"
	"flowgraph/scheduler"
)

// Options configures a Flowgraph. BufferCapacity is the scheduler-wide
// element capacity for every edge's StreamBuffer; zero (the default)
// lets the scheduler auto-size each port's buffer from a fixed byte
// budget instead. Capacity cannot be set per edge.
type Options struct {
	Debug          bool
	BufferCapacity int
}

// Flowgraph is a set of blocks plus a set of edges, built incrementally
// via Connect/ConnectPort and brought up with Start or Run.
type Flowgraph struct {
	mu      sync.Mutex
	opts    Options
	blocks  []block.Block
	seen    map[block.Block]bool
	edges   []block.Edge
	events  *graphevents.Bus
	sched   *scheduler.Scheduler
	started bool
}

// New constructs an empty Flowgraph. Blocks are added implicitly by
// Connect/ConnectPort.
func New(opts Options) *Flowgraph {
	return &Flowgraph{
		opts:   opts,
		seen:   map[block.Block]bool{},
		events: graphevents.New(),
	}
}

// Events returns the graph's lifecycle event bus, usable by a host
// before or after Start to observe block/graph notifications.
func (g *Flowgraph) Events() *graphevents.Bus { return g.events }

func (g *Flowgraph) register(b block.Block) {
	if !g.seen[b] {
		g.seen[b] = true
		g.blocks = append(g.blocks, b)
	}
}

// Connect wires every output port of a, in order, to the input ports of
// b, in order. Port counts must align; types are checked later, at
// Start.
func (g *Flowgraph) Connect(a, b block.Block) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	outs, ins := a.Outputs(), b.Inputs()
	if len(outs) != len(ins) {
		return flowerr.New(flowerr.PortNotFound, "Connect",
			"output/input port count mismatch")
	}
	for i := range outs {
		g.edges = append(g.edges, block.Edge{Src: a, SrcPort: i, Dst: b, DstPort: i})
	}
	g.register(a)
	g.register(b)
	return nil
}

// ConnectPort wires a single named output port of a to a single named
// input port of b.
func (g *Flowgraph) ConnectPort(a block.Block, outName string, b block.Block, inName string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	srcIdx, ok := findPort(a.Outputs(), outName)
	if !ok {
		return flowerr.New(flowerr.PortNotFound, "ConnectPort", "output port "+outName+" not found on "+a.ID())
	}
	dstIdx, ok := findPort(b.Inputs(), inName)
	if !ok {
		return flowerr.New(flowerr.PortNotFound, "ConnectPort", "input port "+inName+" not found on "+b.ID())
	}
	g.edges = append(g.edges, block.Edge{Src: a, SrcPort: srcIdx, Dst: b, DstPort: dstIdx})
	g.register(a)
	g.register(b)
	return nil
}

func findPort(ports []block.Port, name string) (int, bool) {
	for i, p := range ports {
		want := p.Name
		if want == "" {
			want = block.DefaultName(p.Dir, i)
		}
		if want == name {
			return i, true
		}
	}
	return 0, false
}

// Start validates and brings the graph up: composite expansion,
// validation in spec order, rate propagation, buffer allocation, and
// worker spawn. It returns once every worker has been spawned, without
// waiting for any of them; workers may already be processing samples
// when it returns.
func (g *Flowgraph) Start() error {
	platform.Init()

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.started {
		return flowerr.New(flowerr.InvalidArgument, "Start", "graph already started")
	}

	prims, edges, err := g.expand()
	if err != nil {
		return err
	}
	if err := validatePortsExist(prims, edges); err != nil {
		return err
	}
	if err := validateTypeMatch(edges); err != nil {
		return err
	}
	if err := validateFanIn(edges); err != nil {
		return err
	}
	order, err := topoSort(prims, edges)
	if err != nil {
		return err
	}
	if err := validateUnconnectedInputs(prims, edges); err != nil {
		return err
	}
	rates, err := propagateRates(order, edges, g.events)
	if err != nil {
		return err
	}

	sched := scheduler.New(order, edges, rates, g.events, scheduler.Options{
		Debug:          g.opts.Debug,
		BufferCapacity: g.opts.BufferCapacity,
	})
	if err := sched.Start(); err != nil {
		return err
	}
	g.sched = sched
	g.started = true
	return nil
}

// Stop signals every source to close, waits for EOS to propagate and
// every worker to join, and returns the first error observed by any
// worker, if any.
func (g *Flowgraph) Stop() error {
	g.mu.Lock()
	sched := g.sched
	g.mu.Unlock()
	if sched == nil {
		return nil
	}
	return sched.Stop()
}

// Run starts the graph, then blocks until every worker reaches natural
// end-of-stream or SIGINT/SIGTERM arrives, then stops the graph.
func (g *Flowgraph) Run() error {
	if err := g.Start(); err != nil {
		return err
	}

	g.mu.Lock()
	sched := g.sched
	g.mu.Unlock()

	done := sched.Done()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sig := make(chan struct{})
	go func() {
		interrupt.Wait(ctx)
		close(sig)
	}()

	select {
	case <-done:
	case <-sig:
	}
	return g.Stop()
}
