// Package emitter implements synchronous observer lists.
//
// Handlers run on the caller's goroutine in registration order. A handler
// removed while an emission is in progress is not called for the rest of
// that emission.
package emitter

type handler[T any] struct {
	fn     func(T)
	active bool
}

// Emitter holds the handlers of one event. The zero value is ready to use.
type Emitter[T any] struct {
	handlers []*handler[T]
}

// On registers fn and returns a function that unregisters it. The returned
// function is safe to call more than once.
func (e *Emitter[T]) On(fn func(T)) func() {
	if fn == nil {
		return func() {}
	}
	h := &handler[T]{fn: fn, active: true}
	e.handlers = append(e.handlers, h)
	return func() {
		if !h.active {
			return
		}
		h.active = false
		for i, cur := range e.handlers {
			if cur == h {
				e.handlers = append(e.handlers[:i:i], e.handlers[i+1:]...)
				break
			}
		}
	}
}

// Emit calls every registered handler with v.
func (e *Emitter[T]) Emit(v T) {
	if len(e.handlers) == 0 {
		return
	}
	snapshot := append([]*handler[T](nil), e.handlers...)
	for _, h := range snapshot {
		if h.active {
			h.fn(v)
		}
	}
}

// Len returns the number of registered handlers.
func (e *Emitter[T]) Len() int { return len(e.handlers) }

// Clear unregisters every handler.
func (e *Emitter[T]) Clear() {
	for _, h := range e.handlers {
		h.active = false
	}
	e.handlers = nil
}
