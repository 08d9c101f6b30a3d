package session

import (
	"strings"
	"sync"
)

// fragmentBuffer decouples response generation from speech synthesis: the
// generation worker appends fragments while the synthesis worker drains them
// through Fragments.
type fragmentBuffer struct {
	mu                sync.Mutex
	fragments         []string
	fragmentsConsumed int
	complete          bool
	cleared           bool
	updateSignal      chan struct{}
}

func newFragmentBuffer() *fragmentBuffer {
	return &fragmentBuffer{
		updateSignal: make(chan struct{}, 1),
	}
}

func (b *fragmentBuffer) Add(fragment string) {
	b.mu.Lock()
	b.fragments = append(b.fragments, fragment)
	b.mu.Unlock()
	b.signalUpdate()
}

func (b *fragmentBuffer) Complete() {
	b.mu.Lock()
	b.complete = true
	b.mu.Unlock()
	b.signalUpdate()
}

// Fragments yields buffered fragments in insertion order, blocking until more
// arrive. It returns once the buffer is complete and drained, or cleared.
func (b *fragmentBuffer) Fragments(yield func(string) bool) {
	for {
		b.mu.Lock()
		if b.cleared {
			b.mu.Unlock()
			return
		}

		if b.fragmentsConsumed < len(b.fragments) {
			fragment := b.fragments[b.fragmentsConsumed]
			b.fragmentsConsumed++
			b.mu.Unlock()
			if !yield(fragment) {
				return
			}
			continue
		}

		if b.complete {
			b.mu.Unlock()
			return
		}

		b.mu.Unlock()
		<-b.updateSignal
	}
}

func (b *fragmentBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return strings.Join(b.fragments, "")
}

func (b *fragmentBuffer) Clear() {
	b.mu.Lock()
	b.cleared = true
	b.mu.Unlock()
	b.signalUpdate()
}

func (b *fragmentBuffer) signalUpdate() {
	select {
	case b.updateSignal <- struct{}{}:
	default:
	}
}
