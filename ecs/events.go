package ecs

// Event is a generic ECS event payload.
type Event struct {
	Type string
	Data any
}

const (
	// EventInput carries a window input event pumped by the application loop.
	EventInput = "input"
	// EventResize carries the new framebuffer size as [2]int.
	EventResize = "resize"
)

// EventQueue is a simple FIFO queue. Events pushed between ticks are visible
// to every system of the next tick and then discarded.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Pending returns queued events without consuming them.
func (q *EventQueue) Pending() []Event {
	if q == nil {
		return nil
	}
	return q.items
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

// Flush discards every queued event. The backing array is kept but zeroed so
// it does not pin old payloads.
func (q *EventQueue) Flush() {
	if q == nil {
		return
	}
	clear(q.items)
	q.items = q.items[:0]
}
