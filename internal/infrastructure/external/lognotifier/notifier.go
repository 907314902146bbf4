// Package lognotifier is a Notifier that writes notices to the log. It is
// the default for deployments without a messaging integration and for local
// development.
package lognotifier

import (
	"context"

	"go.uber.org/zap"

	"github.com/deskhq/memoflow/internal/application/port"
	"github.com/deskhq/memoflow/internal/domain/entity"
)

// Notifier implements port.Notifier by logging the notice
type Notifier struct {
	logger *zap.Logger
}

// New creates a new log-backed notifier
func New(logger *zap.Logger) *Notifier {
	return &Notifier{logger: logger}
}

// Notify logs the notification at info level
func (n *Notifier) Notify(ctx context.Context, notification *entity.StatusNotification) error {
	n.logger.Info("Status notification",
		zap.String("memo_id", notification.MemoID),
		zap.String("recipient", notification.Recipient),
		zap.String("new_status", notification.NewStatus),
		zap.String("message", notification.Message),
	)
	return nil
}

// Verify interface compliance
var _ port.Notifier = (*Notifier)(nil)
