package graphevents

import (
	"errors"
	"testing"
	"time"
)

func TestBlockErrorDelivered(t *testing.T) {
	b := New()
	sub := b.SubscribeBlock("fir1")
	defer sub.Unsubscribe()

	cause := errors.New("boom")
	b.PublishBlockError("fir1", cause)

	select {
	case msg := <-sub.Channel():
		ev, ok := msg.Payload.(BlockEvent)
		if !ok {
			t.Fatalf("unexpected payload type %T", msg.Payload)
		}
		if ev.Err != cause {
			t.Errorf("Err = %v, want %v", ev.Err, cause)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for block error event")
	}
}

func TestGraphStoppedRetained(t *testing.T) {
	b := New()
	b.PublishGraphStopped(nil)

	sub := b.SubscribeGraphStopped()
	defer sub.Unsubscribe()

	select {
	case msg := <-sub.Channel():
		ev, ok := msg.Payload.(GraphEvent)
		if !ok {
			t.Fatalf("unexpected payload type %T", msg.Payload)
		}
		if ev.Err != nil {
			t.Errorf("Err = %v, want nil", ev.Err)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for retained graph-stopped event")
	}
}

func TestPublishRateSetDelivered(t *testing.T) {
	b := New()
	sub := b.SubscribeBlock("resampler")
	defer sub.Unsubscribe()

	b.PublishRateSet("resampler")

	select {
	case msg := <-sub.Channel():
		ev, ok := msg.Payload.(BlockEvent)
		if !ok || ev.BlockID != "resampler" {
			t.Fatalf("unexpected payload: %#v", msg.Payload)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for rate-set event")
	}
}

func TestSubscribeAllBlocksSeesEveryBlock(t *testing.T) {
	b := New()
	sub := b.SubscribeAllBlocks()
	defer sub.Unsubscribe()

	b.PublishInitialized("src")
	b.PublishEOS("sink")

	seen := map[string]bool{}
	for i := 0; i < 2; i++ {
		select {
		case msg := <-sub.Channel():
			ev := msg.Payload.(BlockEvent)
			seen[ev.BlockID] = true
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for events")
		}
	}
	if !seen["src"] || !seen["sink"] {
		t.Fatalf("expected both blocks represented, got %v", seen)
	}
}
