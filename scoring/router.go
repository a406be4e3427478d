package scoring

import (
	"github.com/lixenwraith/pinball/engine"
)

// ContactHandler reacts to the ball touching a registered body
type ContactHandler interface {
	HandleContact(ball engine.BodyID)
}

// ContactFunc adapts a function to ContactHandler
type ContactFunc func(ball engine.BodyID)

func (f ContactFunc) HandleContact(ball engine.BodyID) { f(ball) }

// Router is the registration table from body handle to scoring handler
// Contacts not involving the ball, or whose other body is unregistered, are ignored
type Router struct {
	ball     func() engine.BodyID
	handlers map[engine.BodyID]ContactHandler
	closed   bool
}

// NewRouter creates a router; ball resolves the current ball handle at dispatch time
func NewRouter(ball func() engine.BodyID) *Router {
	return &Router{
		ball:     ball,
		handlers: make(map[engine.BodyID]ContactHandler),
	}
}

// Register binds handler to body, replacing any previous binding
func (r *Router) Register(body engine.BodyID, handler ContactHandler) {
	if r.closed {
		return
	}
	r.handlers[body] = handler
}

// Unregister removes the binding for body
func (r *Router) Unregister(body engine.BodyID) {
	delete(r.handlers, body)
}

// Dispatch invokes handlers synchronously in contact order
func (r *Router) Dispatch(contacts []engine.Contact) {
	if r.closed || len(contacts) == 0 {
		return
	}
	ball := r.ball()
	if ball == engine.NoBody {
		return
	}
	for _, c := range contacts {
		if r.closed {
			return
		}
		other := c.Other(ball)
		if other == engine.NoBody || other == ball {
			continue
		}
		if h, ok := r.handlers[other]; ok {
			h.HandleContact(ball)
		}
	}
}

// Close drops every registration; later dispatches are inert
func (r *Router) Close() {
	r.closed = true
	r.handlers = make(map[engine.BodyID]ContactHandler)
}

// Registered returns the number of bound bodies
func (r *Router) Registered() int {
	return len(r.handlers)
}
