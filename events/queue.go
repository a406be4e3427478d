package events

// EventQueue is a FIFO of pending events
// Single goroutine only; the game loop both produces and consumes
type EventQueue struct {
	events []GameEvent
}

// NewEventQueue creates an empty queue
func NewEventQueue() *EventQueue {
	return &EventQueue{}
}

// Push appends event
func (eq *EventQueue) Push(event GameEvent) {
	eq.events = append(eq.events, event)
}

// Pop removes and returns the oldest event
func (eq *EventQueue) Pop() (GameEvent, bool) {
	if len(eq.events) == 0 {
		return GameEvent{}, false
	}
	ev := eq.events[0]
	eq.events[0] = GameEvent{}
	eq.events = eq.events[1:]
	if len(eq.events) == 0 {
		eq.events = nil
	}
	return ev, true
}

// Len returns the number of pending events
func (eq *EventQueue) Len() int {
	return len(eq.events)
}

// Clear drops every pending event
func (eq *EventQueue) Clear() {
	eq.events = nil
}
