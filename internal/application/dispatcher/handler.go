package dispatcher

import (
	"context"

	"github.com/deskhq/memoflow/internal/domain/event"
)

// Handler processes domain events
type Handler func(ctx context.Context, evt *event.Event) error

// handlerInfo pairs a handler with its registration name
type handlerInfo struct {
	name    string
	handler Handler
}
