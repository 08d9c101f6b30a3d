package session

import (
	"slices"
	"testing"
	"time"
)

func TestFragmentBufferDrainsInInsertionOrder(t *testing.T) {
	buffer := newFragmentBuffer()
	buffer.Add("こんにちは")
	buffer.Add("、")
	buffer.Add("元気ですか？")
	buffer.Complete()

	var drained []string
	for fragment := range buffer.Fragments {
		drained = append(drained, fragment)
	}

	if !slices.Equal(drained, []string{"こんにちは", "、", "元気ですか？"}) {
		t.Fatalf("expected fragments in insertion order, got %q", drained)
	}
	if got := buffer.String(); got != "こんにちは、元気ですか？" {
		t.Fatalf("expected assembled text, got %q", got)
	}
}

func TestFragmentBufferBlocksUntilComplete(t *testing.T) {
	buffer := newFragmentBuffer()
	buffer.Add("first")

	drained := make(chan []string, 1)
	go func() {
		var fragments []string
		for fragment := range buffer.Fragments {
			fragments = append(fragments, fragment)
		}
		drained <- fragments
	}()

	select {
	case <-drained:
		t.Fatalf("expected consumer to block until the buffer completes")
	case <-time.After(20 * time.Millisecond):
	}

	buffer.Add("second")
	buffer.Complete()

	select {
	case fragments := <-drained:
		if !slices.Equal(fragments, []string{"first", "second"}) {
			t.Fatalf("expected both fragments, got %q", fragments)
		}
	case <-time.After(time.Second):
		t.Fatalf("expected consumer to finish after completion")
	}
}

func TestFragmentBufferClearStopsConsumer(t *testing.T) {
	buffer := newFragmentBuffer()
	buffer.Add("fragment")

	drained := make(chan struct{})
	go func() {
		for range buffer.Fragments {
		}
		close(drained)
	}()

	buffer.Clear()

	select {
	case <-drained:
	case <-time.After(time.Second):
		t.Fatalf("expected consumer to stop after clear")
	}
}
