package eventbus

// Event is an arbitrary event passed on the untyped bus.
type Event = any

// EventBus is the untyped publish/subscribe surface used by components
// that emit heterogeneous events.
type EventBus interface {
	Publish(Event)
	Subscribe() <-chan Event
	Unsubscribe(<-chan Event)
	Close()
}

// Bus is TypedBus specialized to untyped events.
type Bus struct {
	TypedBus[Event]
}

// New creates a new Bus.
func New() *Bus { return &Bus{} }
