package events

import "time"

// Kind is the namespaced identifier of an event type, such as
// "user_input.transcript_final". The full taxonomy is listed in the package
// documentation.
type Kind string

// Event is satisfied by every session event. Events are immutable values;
// their timestamp is fixed at construction.
type Event interface {
	Kind() Kind
	Timestamp() time.Time
}

// Base carries the kind and creation time shared by all events. Concrete
// event types embed it and add their payload fields.
type Base struct {
	kind      Kind
	timestamp time.Time
}

// NewBase stamps a base for the given kind with the current time.
func NewBase(kind Kind) Base {
	return Base{
		kind:      kind,
		timestamp: time.Now(),
	}
}

func (b Base) Kind() Kind { return b.kind }

func (b Base) Timestamp() time.Time { return b.timestamp }
