package event

// eventQueue is a FIFO buffer of pending events.
//
// The queue is unbounded so a handler cascade can enqueue arbitrarily many
// re-entrant events without blocking. Synchronization is the owning Bus's
// responsibility; the queue itself is not goroutine-safe.
type eventQueue struct {
	events []Event
}

// newEventQueue creates an empty event queue.
func newEventQueue() *eventQueue {
	return &eventQueue{
		events: make([]Event, 0, 16),
	}
}

// Enqueue adds an event to the back of the queue.
func (q *eventQueue) Enqueue(e Event) {
	q.events = append(q.events, e)
}

// TryDequeue removes and returns the front event.
// Returns (Event{}, false) if the queue is empty.
func (q *eventQueue) TryDequeue() (Event, bool) {
	if len(q.events) == 0 {
		return Event{}, false
	}

	e := q.events[0]

	// Nil out the slot so the Event's payload pointers are collectable
	// while the underlying array lives on.
	q.events[0] = Event{}

	if len(q.events) == 1 {
		// Last element - reset to empty slice with original capacity
		q.events = q.events[:0]
	} else {
		q.events = q.events[1:]
	}

	return e, true
}

// Len returns the current queue length.
func (q *eventQueue) Len() int {
	return len(q.events)
}
