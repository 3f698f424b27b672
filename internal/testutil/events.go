package testutil

import (
	"github.com/kinema-dev/kinema/internal/event"
)

// EventCollector records every event delivered to its subscriptions, in
// order, for assertion in tests.
type EventCollector struct {
	Events []event.Event
}

// Collect subscribes the collector to one kind on the bus, optionally
// filtered by target.
func (c *EventCollector) Collect(bus *event.Bus, target any, kind event.Kind) event.Subscription {
	return bus.Subscribe(target, kind, func(ev event.Event) {
		c.Events = append(c.Events, ev)
	})
}

// Kinds returns the collected event kinds in delivery order.
func (c *EventCollector) Kinds() []string {
	out := make([]string, len(c.Events))
	for i, ev := range c.Events {
		out[i] = ev.Kind.String()
	}
	return out
}

// Reset clears the collected events.
func (c *EventCollector) Reset() {
	c.Events = nil
}
