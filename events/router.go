package events

// Handler processes specific event types
// Components implement this interface to receive routed events
type Handler interface {
	// HandleEvent processes a single event, called synchronously during dispatch
	HandleEvent(event GameEvent)

	// EventTypes returns the event types this handler processes
	EventTypes() []EventType
}

// HandlerFunc adapts a function to a Handler for the listed types
type HandlerFunc struct {
	Types []EventType
	Fn    func(GameEvent)
}

func (h HandlerFunc) HandleEvent(event GameEvent) { h.Fn(event) }
func (h HandlerFunc) EventTypes() []EventType     { return h.Types }

// Router dispatches events to registered handlers
//
// Architecture:
//   - Single-threaded dispatch on the game loop goroutine
//   - Multiple handlers can register for the same event type, invoked in registration order
//   - Events published from inside a handler are queued and delivered after the current one
//   - After Close every publish is dropped
type Router struct {
	handlers    map[EventType][]Handler
	queue       *EventQueue
	dispatching bool
	closed      bool
}

// NewRouter creates an empty router
func NewRouter() *Router {
	return &Router{
		handlers: make(map[EventType][]Handler),
		queue:    NewEventQueue(),
	}
}

// Register adds a handler for its declared event types
func (r *Router) Register(handler Handler) {
	if r.closed {
		return
	}
	for _, t := range handler.EventTypes() {
		r.handlers[t] = append(r.handlers[t], handler)
	}
}

// Publish delivers event to its handlers before returning, unless a dispatch is already running
// in which case it is delivered when that dispatch drains the queue
func (r *Router) Publish(event GameEvent) {
	if r.closed {
		return
	}
	r.queue.Push(event)
	if r.dispatching {
		return
	}

	r.dispatching = true
	defer func() { r.dispatching = false }()

	for !r.closed {
		ev, ok := r.queue.Pop()
		if !ok {
			return
		}
		for _, h := range r.handlers[ev.Type] {
			h.HandleEvent(ev)
			if r.closed {
				return
			}
		}
	}
}

// Close drops every handler and pending event
func (r *Router) Close() {
	r.closed = true
	r.handlers = make(map[EventType][]Handler)
	r.queue.Clear()
}

// HasHandlers returns true if any handlers are registered for the given type
func (r *Router) HasHandlers(t EventType) bool {
	return len(r.handlers[t]) > 0
}

// HandlerCount returns the number of handlers registered for the given type
func (r *Router) HandlerCount(t EventType) int {
	return len(r.handlers[t])
}
