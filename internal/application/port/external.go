package port

import (
	"context"

	"github.com/deskhq/memoflow/internal/domain/entity"
)

// Notifier delivers a status-change notice to an interested party. Delivery
// is best-effort from the workflow's perspective: an error here is recorded
// and logged but never rolls back a committed transition.
type Notifier interface {
	Notify(ctx context.Context, n *entity.StatusNotification) error
}
