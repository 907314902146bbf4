package dispatcher

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/deskhq/memoflow/internal/domain/event"
)

// Dispatcher routes domain events to registered handlers. The workflow engine
// emits events after commit; subscribers (notifications, projections) react
// without being able to affect the committed transition.
type Dispatcher interface {
	// Subscribe registers a named handler for an event type
	Subscribe(eventType event.Type, name string, handler Handler)

	// Dispatch sends the event to all handlers synchronously, in registration
	// order. Returns the first handler error.
	Dispatch(ctx context.Context, evt *event.Event) error

	// DispatchAsync sends the event to handlers without waiting for them.
	// Handler errors are logged, never returned.
	DispatchAsync(ctx context.Context, evt *event.Event)

	// Close shuts down the dispatcher and waits for in-flight async handlers
	Close() error
}

// Logger is the minimal logging surface the dispatcher needs
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

type eventDispatcher struct {
	mu       sync.RWMutex
	handlers map[event.Type][]handlerInfo
	logger   Logger

	wg     sync.WaitGroup
	closed atomic.Bool
}

// Option configures the dispatcher
type Option func(*eventDispatcher)

// WithLogger sets a logger for the dispatcher
func WithLogger(logger Logger) Option {
	return func(d *eventDispatcher) {
		d.logger = logger
	}
}

// NewDispatcher creates a new event dispatcher
func NewDispatcher(opts ...Option) Dispatcher {
	d := &eventDispatcher{
		handlers: make(map[event.Type][]handlerInfo),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *eventDispatcher) Subscribe(eventType event.Type, name string, handler Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.handlers[eventType] = append(d.handlers[eventType], handlerInfo{name: name, handler: handler})

	if d.logger != nil {
		d.logger.Info("Handler registered", "event_type", eventType, "handler_name", name)
	}
}

func (d *eventDispatcher) Dispatch(ctx context.Context, evt *event.Event) error {
	if d.closed.Load() {
		return fmt.Errorf("dispatcher is closed")
	}

	d.mu.RLock()
	handlers := d.handlers[evt.Type]
	d.mu.RUnlock()

	for _, info := range handlers {
		if err := d.safeExecute(ctx, evt, info); err != nil {
			if d.logger != nil {
				d.logger.Error("Handler error",
					"event_type", evt.Type,
					"event_id", evt.ID,
					"handler_name", info.name,
					"error", err,
				)
			}
			return fmt.Errorf("handler %s failed: %w", info.name, err)
		}
	}

	return nil
}

func (d *eventDispatcher) DispatchAsync(ctx context.Context, evt *event.Event) {
	if d.closed.Load() {
		if d.logger != nil {
			d.logger.Error("Dropping event, dispatcher is closed",
				"event_type", evt.Type, "event_id", evt.ID)
		}
		return
	}

	d.mu.RLock()
	handlers := d.handlers[evt.Type]
	d.mu.RUnlock()

	for _, info := range handlers {
		d.wg.Add(1)
		go func(h handlerInfo) {
			defer d.wg.Done()

			if err := d.safeExecute(ctx, evt, h); err != nil && d.logger != nil {
				d.logger.Error("Async handler error",
					"event_type", evt.Type,
					"event_id", evt.ID,
					"handler_name", h.name,
					"error", err,
				)
			}
		}(info)
	}
}

func (d *eventDispatcher) Close() error {
	if !d.closed.CompareAndSwap(false, true) {
		return fmt.Errorf("dispatcher already closed")
	}
	d.wg.Wait()
	return nil
}

// safeExecute runs a handler with panic recovery
func (d *eventDispatcher) safeExecute(ctx context.Context, evt *event.Event, info handlerInfo) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()

	return info.handler(ctx, evt)
}
