package dispatcher

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/deskhq/memoflow/internal/domain/event"
)

// mockLogger implements Logger for testing
type mockLogger struct {
	mu     sync.Mutex
	infos  []string
	errors []string
}

func (m *mockLogger) Info(msg string, keysAndValues ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.infos = append(m.infos, msg)
}

func (m *mockLogger) Error(msg string, keysAndValues ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors = append(m.errors, msg)
}

func (m *mockLogger) ErrorCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.errors)
}

func (m *mockLogger) HasInfo(msg string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, info := range m.infos {
		if info == msg {
			return true
		}
	}
	return false
}

func TestSubscribe(t *testing.T) {
	t.Run("registration is logged", func(t *testing.T) {
		logger := &mockLogger{}
		d := NewDispatcher(WithLogger(logger))

		d.Subscribe(event.TypeMemoCreated, "test-handler", func(ctx context.Context, evt *event.Event) error {
			return nil
		})

		if !logger.HasInfo("Handler registered") {
			t.Error("expected registration to be logged")
		}
	})

	t.Run("multiple handlers on same event type", func(t *testing.T) {
		d := NewDispatcher()
		called1, called2 := false, false

		d.Subscribe(event.TypeMemoCreated, "handler-1", func(ctx context.Context, evt *event.Event) error {
			called1 = true
			return nil
		})
		d.Subscribe(event.TypeMemoCreated, "handler-2", func(ctx context.Context, evt *event.Event) error {
			called2 = true
			return nil
		})

		evt := event.NewEvent(event.TypeMemoCreated, "memo-1", nil)
		if err := d.Dispatch(context.Background(), evt); err != nil {
			t.Fatalf("dispatch failed: %v", err)
		}

		if !called1 || !called2 {
			t.Error("expected both handlers to be called")
		}
	})
}

func TestDispatch(t *testing.T) {
	t.Run("dispatches to handlers in registration order", func(t *testing.T) {
		d := NewDispatcher()
		order := []int{}
		var mu sync.Mutex

		d.Subscribe(event.TypeStatusChanged, "first", func(ctx context.Context, evt *event.Event) error {
			mu.Lock()
			order = append(order, 1)
			mu.Unlock()
			return nil
		})
		d.Subscribe(event.TypeStatusChanged, "second", func(ctx context.Context, evt *event.Event) error {
			mu.Lock()
			order = append(order, 2)
			mu.Unlock()
			return nil
		})

		evt := event.NewEvent(event.TypeStatusChanged, "memo-1", nil)
		if err := d.Dispatch(context.Background(), evt); err != nil {
			t.Fatalf("dispatch failed: %v", err)
		}

		if len(order) != 2 || order[0] != 1 || order[1] != 2 {
			t.Errorf("expected handlers to run in order [1, 2], got %v", order)
		}
	})

	t.Run("ignores handlers for other event types", func(t *testing.T) {
		d := NewDispatcher()
		called := false

		d.Subscribe(event.TypeMemoCreated, "created-only", func(ctx context.Context, evt *event.Event) error {
			called = true
			return nil
		})

		evt := event.NewEvent(event.TypeStatusChanged, "memo-1", nil)
		if err := d.Dispatch(context.Background(), evt); err != nil {
			t.Fatalf("dispatch failed: %v", err)
		}

		if called {
			t.Error("expected handler not to be called for unrelated event type")
		}
	})

	t.Run("returns first error encountered", func(t *testing.T) {
		d := NewDispatcher()
		expectedErr := errors.New("handler error")
		called := false

		d.Subscribe(event.TypeStatusChanged, "failing", func(ctx context.Context, evt *event.Event) error {
			return expectedErr
		})
		d.Subscribe(event.TypeStatusChanged, "after", func(ctx context.Context, evt *event.Event) error {
			called = true
			return nil
		})

		evt := event.NewEvent(event.TypeStatusChanged, "memo-1", nil)
		err := d.Dispatch(context.Background(), evt)

		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if !errors.Is(err, expectedErr) {
			t.Errorf("expected error to wrap %v, got %v", expectedErr, err)
		}
		if called {
			t.Error("expected second handler not to be called after first error")
		}
	})

	t.Run("recovers from handler panic", func(t *testing.T) {
		logger := &mockLogger{}
		d := NewDispatcher(WithLogger(logger))

		d.Subscribe(event.TypeStatusChanged, "panicking", func(ctx context.Context, evt *event.Event) error {
			panic("test panic")
		})

		evt := event.NewEvent(event.TypeStatusChanged, "memo-1", nil)
		err := d.Dispatch(context.Background(), evt)

		if err == nil {
			t.Fatal("expected error from panic recovery")
		}
		if logger.ErrorCount() == 0 {
			t.Error("expected panic to be logged as error")
		}
	})
}

func TestDispatchAsync(t *testing.T) {
	t.Run("runs handlers without blocking the caller", func(t *testing.T) {
		d := NewDispatcher()
		var calls atomic.Int32
		done := make(chan struct{})

		d.Subscribe(event.TypeStatusChanged, "slow", func(ctx context.Context, evt *event.Event) error {
			calls.Add(1)
			close(done)
			return nil
		})

		evt := event.NewEvent(event.TypeStatusChanged, "memo-1", nil)
		d.DispatchAsync(context.Background(), evt)

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("async handler did not run")
		}

		if calls.Load() != 1 {
			t.Errorf("expected 1 call, got %d", calls.Load())
		}
	})

	t.Run("handler error is logged, not returned", func(t *testing.T) {
		logger := &mockLogger{}
		d := NewDispatcher(WithLogger(logger))
		done := make(chan struct{})

		d.Subscribe(event.TypeStatusChanged, "failing", func(ctx context.Context, evt *event.Event) error {
			defer close(done)
			return errors.New("delivery failed")
		})

		evt := event.NewEvent(event.TypeStatusChanged, "memo-1", nil)
		d.DispatchAsync(context.Background(), evt)

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("async handler did not run")
		}

		if err := d.Close(); err != nil {
			t.Fatalf("close failed: %v", err)
		}

		if logger.ErrorCount() == 0 {
			t.Error("expected handler error to be logged")
		}
	})
}

func TestClose(t *testing.T) {
	t.Run("waits for in-flight async handlers", func(t *testing.T) {
		d := NewDispatcher()
		var finished atomic.Bool

		d.Subscribe(event.TypeStatusChanged, "slow", func(ctx context.Context, evt *event.Event) error {
			time.Sleep(50 * time.Millisecond)
			finished.Store(true)
			return nil
		})

		evt := event.NewEvent(event.TypeStatusChanged, "memo-1", nil)
		d.DispatchAsync(context.Background(), evt)

		if err := d.Close(); err != nil {
			t.Fatalf("close failed: %v", err)
		}

		if !finished.Load() {
			t.Error("expected Close to wait for the in-flight handler")
		}
	})

	t.Run("dispatch after close is rejected", func(t *testing.T) {
		d := NewDispatcher()
		if err := d.Close(); err != nil {
			t.Fatalf("close failed: %v", err)
		}

		evt := event.NewEvent(event.TypeStatusChanged, "memo-1", nil)
		if err := d.Dispatch(context.Background(), evt); err == nil {
			t.Error("expected error dispatching on closed dispatcher")
		}
	})

	t.Run("double close is an error", func(t *testing.T) {
		d := NewDispatcher()
		if err := d.Close(); err != nil {
			t.Fatalf("close failed: %v", err)
		}
		if err := d.Close(); err == nil {
			t.Error("expected error on second close")
		}
	})
}
