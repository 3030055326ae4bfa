// Package event is an in-process event dispatcher. Fire runs listeners on
// the caller's goroutine; Dispatch hands them to a worker pool when one is
// installed. A panicking listener is logged and does not stop the others.
package event

import (
	"context"
	"fmt"
	"sync"

	"github.com/neubistro/bistro/pkg/logger"
	"github.com/neubistro/bistro/pkg/workerpool"
)

// Handler receives an event payload.
type Handler func(ctx context.Context, payload interface{})

var (
	mu       sync.RWMutex
	handlers = map[string][]Handler{}
	pool     *workerpool.Pool
)

// Listen registers a handler for the given event name.
func Listen(event string, handler Handler) {
	mu.Lock()
	defer mu.Unlock()
	handlers[event] = append(handlers[event], handler)
}

// Fire dispatches an event synchronously to all registered listeners.
func Fire(ctx context.Context, event string, payload interface{}) {
	mu.RLock()
	hs := append([]Handler(nil), handlers[event]...)
	mu.RUnlock()

	for _, h := range hs {
		call(ctx, event, h, payload)
	}
}

// SetPool installs the pool Dispatch runs on. nil restores synchronous
// delivery.
func SetPool(p *workerpool.Pool) {
	mu.Lock()
	defer mu.Unlock()
	pool = p
}

// Dispatch delivers the event off the caller's goroutine when a pool is
// installed and has room, and synchronously otherwise. Listeners get a
// context that outlives the request.
func Dispatch(ctx context.Context, event string, payload interface{}) {
	mu.RLock()
	p := pool
	mu.RUnlock()

	if p == nil {
		Fire(ctx, event, payload)
		return
	}

	detached := context.WithoutCancel(ctx)
	if err := p.Submit(func() { Fire(detached, event, payload) }); err != nil {
		logger.WithCtx(ctx).Warn("event pool unavailable, delivering inline", "event", event, "error", err)
		Fire(ctx, event, payload)
	}
}

// Has reports whether any listener is registered for event.
func Has(event string) bool {
	mu.RLock()
	defer mu.RUnlock()
	return len(handlers[event]) > 0
}

// Flush removes all listeners (useful in tests).
func Flush() {
	mu.Lock()
	defer mu.Unlock()
	handlers = map[string][]Handler{}
}

func call(ctx context.Context, event string, h Handler, payload interface{}) {
	defer func() {
		if r := recover(); r != nil {
			logger.WithCtx(ctx).Error("event listener panicked",
				"event", event,
				"error", fmt.Sprintf("%v", r),
			)
		}
	}()
	h(ctx, payload)
}
