package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/deskhq/memoflow/internal/application/port"
	"github.com/deskhq/memoflow/internal/domain/entity"
)

// NotificationRepository implements port.NotificationRepository
type NotificationRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *sql.DB, logger *zap.Logger) port.NotificationRepository {
	return &NotificationRepository{
		db:     db,
		logger: logger,
	}
}

// Create records a new pending notification
func (r *NotificationRepository) Create(ctx context.Context, n *entity.StatusNotification) error {
	query := `
		INSERT INTO status_notifications (
			memo_id, recipient, new_status, actor_id, message, status, error_message
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		n.MemoID,
		n.Recipient,
		n.NewStatus,
		n.ActorID,
		n.Message,
		n.Status,
		n.ErrorMessage,
	)
	if err != nil {
		r.logger.Error("Failed to create notification", zap.String("memo_id", n.MemoID), zap.Error(err))
		return fmt.Errorf("failed to create notification: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	n.ID = id
	return nil
}

// GetByMemoID retrieves all notification rows for a memo
func (r *NotificationRepository) GetByMemoID(ctx context.Context, memoID string) ([]*entity.StatusNotification, error) {
	query := `
		SELECT id, memo_id, recipient, new_status, actor_id, message,
			status, error_message, sent_at, created_at, updated_at
		FROM status_notifications
		WHERE memo_id = ?
		ORDER BY created_at ASC, id ASC
	`

	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query, memoID)
	if err != nil {
		r.logger.Error("Failed to get notifications", zap.String("memo_id", memoID), zap.Error(err))
		return nil, fmt.Errorf("failed to get notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*entity.StatusNotification
	for rows.Next() {
		var n entity.StatusNotification
		var sentAt sql.NullTime
		err := rows.Scan(
			&n.ID,
			&n.MemoID,
			&n.Recipient,
			&n.NewStatus,
			&n.ActorID,
			&n.Message,
			&n.Status,
			&n.ErrorMessage,
			&sentAt,
			&n.CreatedAt,
			&n.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		if sentAt.Valid {
			n.SentAt = &sentAt.Time
		}
		notifications = append(notifications, &n)
	}

	return notifications, rows.Err()
}

// MarkSent marks a notification as delivered
func (r *NotificationRepository) MarkSent(ctx context.Context, id int64) error {
	query := `
		UPDATE status_notifications
		SET status = ?, sent_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	_, err := getExecutor(ctx, r.db).ExecContext(ctx, query, entity.NotificationStatusSent, id)
	if err != nil {
		r.logger.Error("Failed to mark notification sent", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to mark notification sent: %w", err)
	}

	return nil
}

// MarkFailed marks a notification as failed with the delivery error
func (r *NotificationRepository) MarkFailed(ctx context.Context, id int64, errorMsg string) error {
	query := `
		UPDATE status_notifications
		SET status = ?, error_message = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	_, err := getExecutor(ctx, r.db).ExecContext(ctx, query, entity.NotificationStatusFailed, errorMsg, id)
	if err != nil {
		r.logger.Error("Failed to mark notification failed", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to mark notification failed: %w", err)
	}

	return nil
}

// Verify interface compliance
var _ port.NotificationRepository = (*NotificationRepository)(nil)
