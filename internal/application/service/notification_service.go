package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/deskhq/memoflow/internal/application/dispatcher"
	"github.com/deskhq/memoflow/internal/application/port"
	"github.com/deskhq/memoflow/internal/domain/entity"
	"github.com/deskhq/memoflow/internal/domain/event"
)

// ErrDelivery indicates the notifier failed to deliver; the notification row
// records the failure and the committed transition is unaffected.
var ErrDelivery = errors.New("notification delivery failed")

// Logger is the minimal logging surface the service layer needs
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// NotificationService turns committed status changes into delivered notices.
// It runs strictly after the transition has committed; nothing it does can
// roll the transition back.
type NotificationService interface {
	// Register subscribes the service to workflow events
	Register(d dispatcher.Dispatcher)

	// HandleStatusChanged records and delivers one status-change notice
	HandleStatusChanged(ctx context.Context, evt *event.Event) error

	// GetByMemoID returns the delivery bookkeeping rows for a memo
	GetByMemoID(ctx context.Context, memoID string) ([]*entity.StatusNotification, error)
}

type notificationServiceImpl struct {
	memoRepo         port.MemoRepository
	historyRepo      port.HistoryRepository
	notificationRepo port.NotificationRepository
	notifier         port.Notifier
	sendTimeout      time.Duration
	logger           Logger
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(
	memoRepo port.MemoRepository,
	historyRepo port.HistoryRepository,
	notificationRepo port.NotificationRepository,
	notifier port.Notifier,
	sendTimeout time.Duration,
	logger Logger,
) NotificationService {
	if sendTimeout <= 0 {
		sendTimeout = 10 * time.Second
	}
	return &notificationServiceImpl{
		memoRepo:         memoRepo,
		historyRepo:      historyRepo,
		notificationRepo: notificationRepo,
		notifier:         notifier,
		sendTimeout:      sendTimeout,
		logger:           logger,
	}
}

// Register subscribes the service to workflow events
func (s *notificationServiceImpl) Register(d dispatcher.Dispatcher) {
	d.Subscribe(event.TypeStatusChanged, "notification-service", s.HandleStatusChanged)
}

// HandleStatusChanged records and delivers one status-change notice. The memo
// creator is the interested party: they started the process and every
// transition concerns their document.
func (s *notificationServiceImpl) HandleStatusChanged(ctx context.Context, evt *event.Event) error {
	memo, err := s.memoRepo.GetByID(ctx, evt.MemoID)
	if err != nil {
		return fmt.Errorf("load memo for notification: %w", err)
	}
	if memo == nil {
		return fmt.Errorf("memo %s not found for notification", evt.MemoID)
	}

	recipient, err := s.creatorOf(ctx, evt.MemoID)
	if err != nil {
		return err
	}

	newStatus := evt.GetPayloadString("new_status")
	actorID := evt.GetPayloadString("actor_id")
	notification := &entity.StatusNotification{
		MemoID:    evt.MemoID,
		Recipient: recipient,
		NewStatus: newStatus,
		ActorID:   actorID,
		Message: fmt.Sprintf("Memo %q moved to %s (%s by %s: %s)",
			memo.Title, newStatus, evt.GetPayloadString("action"), actorID,
			evt.GetPayloadString("comment")),
		Status: entity.NotificationStatusPending,
	}

	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		return fmt.Errorf("record notification: %w", err)
	}

	sendCtx, cancel := context.WithTimeout(ctx, s.sendTimeout)
	defer cancel()

	if err := s.notifier.Notify(sendCtx, notification); err != nil {
		s.logger.Error("Notification delivery failed",
			"memo_id", evt.MemoID,
			"recipient", recipient,
			"error", err,
		)
		if markErr := s.notificationRepo.MarkFailed(ctx, notification.ID, err.Error()); markErr != nil {
			s.logger.Error("Failed to mark notification as failed", "error", markErr)
		}
		return fmt.Errorf("%w: %w", ErrDelivery, err)
	}

	if err := s.notificationRepo.MarkSent(ctx, notification.ID); err != nil {
		s.logger.Error("Failed to mark notification as sent", "error", err)
		return fmt.Errorf("mark notification sent: %w", err)
	}

	s.logger.Info("Notification delivered",
		"memo_id", evt.MemoID,
		"recipient", recipient,
		"new_status", newStatus,
	)
	return nil
}

// GetByMemoID returns the delivery bookkeeping rows for a memo
func (s *notificationServiceImpl) GetByMemoID(ctx context.Context, memoID string) ([]*entity.StatusNotification, error) {
	return s.notificationRepo.GetByMemoID(ctx, memoID)
}

// creatorOf resolves the memo's creator from the implicit creation entry
func (s *notificationServiceImpl) creatorOf(ctx context.Context, memoID string) (string, error) {
	entries, err := s.historyRepo.GetByMemoID(ctx, memoID)
	if err != nil {
		return "", fmt.Errorf("load history for notification: %w", err)
	}
	for _, e := range entries {
		if e.IsCreationEntry() {
			return e.ActorID, nil
		}
	}
	return "", fmt.Errorf("memo %s has no creation entry", memoID)
}
