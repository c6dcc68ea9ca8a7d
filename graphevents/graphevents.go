// Package graphevents gives the scheduler and an embedding host a
// typed, retained-message vocabulary for flow-graph lifecycle
// notifications, built on the generic package bus. A Flowgraph owns one
// bus.Bus for the lifetime of a run; Subscribe lets a host observe
// block start/stop/error transitions without polling.
package graphevents

import (
	"time"

	"flowgraph/bus"
)

// Topic segments. A subscriber typically subscribes with a wildcard,
// e.g. bus.T("block", "+", "error") for every block's errors.
const (
	segBlock   = "block"
	segGraph   = "graph"
	segInit    = "initialized"
	segRate    = "rate-set"
	segEOS     = "end-of-stream"
	segError   = "error"
	segStopped = "stopped"
)

// BlockEvent is the payload published on a per-block topic.
type BlockEvent struct {
	BlockID string
	At      time.Time
	Err     error // nil except on segError
}

// GraphEvent is the payload published on the graph-wide topic.
type GraphEvent struct {
	At  time.Time
	Err error // the first error observed by the scheduler, if any
}

// Bus wraps a bus.Connection with the flow-graph's topic vocabulary.
type Bus struct {
	conn *bus.Connection
}

// New creates a fresh event bus. Each Flowgraph owns exactly one.
func New() *Bus {
	b := bus.NewBus(8)
	return &Bus{conn: b.NewConnection("flowgraph")}
}

func topicBlock(blockID, event string) bus.Topic {
	return bus.T(segBlock, blockID, event)
}

// PublishInitialized announces that a block's Initialize succeeded.
func (b *Bus) PublishInitialized(blockID string) {
	b.conn.Publish(b.conn.NewMessage(topicBlock(blockID, segInit), BlockEvent{BlockID: blockID, At: time.Now()}, true))
}

// PublishRateSet announces that rate propagation has called SetRate on
// a block. The payload does not carry the rate value.
func (b *Bus) PublishRateSet(blockID string) {
	b.conn.Publish(b.conn.NewMessage(topicBlock(blockID, segRate), BlockEvent{BlockID: blockID, At: time.Now()}, true))
}

// PublishEOS announces a block observed or produced end-of-stream.
func (b *Bus) PublishEOS(blockID string) {
	b.conn.Publish(b.conn.NewMessage(topicBlock(blockID, segEOS), BlockEvent{BlockID: blockID, At: time.Now()}, true))
}

// PublishBlockError announces a worker's process call returned an error.
func (b *Bus) PublishBlockError(blockID string, err error) {
	b.conn.Publish(b.conn.NewMessage(topicBlock(blockID, segError), BlockEvent{BlockID: blockID, At: time.Now(), Err: err}, true))
}

// PublishGraphStopped announces the graph fully stopped, with the first
// error observed across all workers, if any.
func (b *Bus) PublishGraphStopped(err error) {
	b.conn.Publish(b.conn.NewMessage(bus.T(segGraph, segStopped), GraphEvent{At: time.Now(), Err: err}, true))
}

// SubscribeBlock subscribes to every event for one block.
func (b *Bus) SubscribeBlock(blockID string) *bus.Subscription {
	return b.conn.Subscribe(bus.T(segBlock, blockID, "+"))
}

// SubscribeAllBlocks subscribes to every block's events.
func (b *Bus) SubscribeAllBlocks() *bus.Subscription {
	return b.conn.Subscribe(bus.T(segBlock, "+", "+"))
}

// SubscribeGraphStopped subscribes to the graph-stopped retained topic.
func (b *Bus) SubscribeGraphStopped() *bus.Subscription {
	return b.conn.Subscribe(bus.T(segGraph, segStopped))
}
