package events

import (
	"testing"
	"time"
)

func TestPublishSubscribe(t *testing.T) {
	t.Parallel()

	hub := NewHub(8)
	ch, cancel := hub.Subscribe()
	defer cancel()

	hub.Publish("preserve.submitted", map[string]string{"dataset_id": "abc123"})

	select {
	case ev := <-ch:
		if ev.Type != "preserve.submitted" {
			t.Fatalf("expected preserve.submitted, got %q", ev.Type)
		}
		if ev.ID != 1 {
			t.Fatalf("expected ID 1, got %d", ev.ID)
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for event")
	}
}

func TestSnapshotSince(t *testing.T) {
	t.Parallel()

	hub := NewHub(8)
	hub.Publish("validate.completed", nil)
	hub.Publish("preserve.submitted", nil)
	hub.Publish("genmetadata.completed", nil)

	all := hub.SnapshotSince(0)
	if len(all) != 3 {
		t.Fatalf("expected 3 events, got %d", len(all))
	}

	tail := hub.SnapshotSince(all[1].ID)
	if len(tail) != 1 {
		t.Fatalf("expected 1 event after ID %d, got %d", all[1].ID, len(tail))
	}
	if tail[0].Type != "genmetadata.completed" {
		t.Fatalf("unexpected event type %q", tail[0].Type)
	}
}

func TestRingOverwritesOldest(t *testing.T) {
	t.Parallel()

	hub := NewHub(2)
	hub.Publish("a", nil)
	hub.Publish("b", nil)
	hub.Publish("c", nil)

	evs := hub.SnapshotSince(0)
	if len(evs) != 2 {
		t.Fatalf("expected 2 buffered events, got %d", len(evs))
	}
	if evs[0].Type != "b" || evs[1].Type != "c" {
		t.Fatalf("expected oldest event dropped, got %q, %q", evs[0].Type, evs[1].Type)
	}
}

func TestSlowSubscriberDoesNotBlock(t *testing.T) {
	t.Parallel()

	hub := NewHub(8)
	_, cancel := hub.Subscribe() // never drained
	defer cancel()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 200; i++ {
			hub.Publish("tick", nil)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("publisher blocked on a slow subscriber")
	}
}

func TestCancelStopsDelivery(t *testing.T) {
	t.Parallel()

	hub := NewHub(8)
	ch, cancel := hub.Subscribe()
	cancel()

	// Channel is closed after cancel.
	if _, ok := <-ch; ok {
		t.Fatalf("expected closed channel after cancel")
	}
}
