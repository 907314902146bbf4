package port

import (
	"context"

	"github.com/deskhq/memoflow/internal/domain/entity"
)

// MemoRepository defines persistence operations for Memo
type MemoRepository interface {
	// Create persists a new memo
	Create(ctx context.Context, memo *entity.Memo) error

	// GetByID retrieves a memo by ID. Returns (nil, nil) when no memo exists.
	GetByID(ctx context.Context, id string) (*entity.Memo, error)

	// UpdateStatusVersion sets the memo's status and bumps its version, but
	// only if the stored version still equals expectedVersion. Returns false
	// when the guard did not match (concurrent writer won).
	UpdateStatusVersion(ctx context.Context, id string, status string, expectedVersion int64) (bool, error)

	// List retrieves memos ordered by creation time, newest first. An empty
	// status means no status filter.
	List(ctx context.Context, status string, limit, offset int) ([]*entity.Memo, error)
}

// HistoryRepository defines persistence operations for the append-only audit
// trail. There is deliberately no update or delete.
type HistoryRepository interface {
	// Append writes a new history entry. The (memo_id, sequence_number) pair
	// is unique; appending a duplicate sequence fails.
	Append(ctx context.Context, entry *entity.WorkflowHistoryEntry) error

	// GetByMemoID retrieves all entries for a memo ordered by sequence number
	GetByMemoID(ctx context.Context, memoID string) ([]*entity.WorkflowHistoryEntry, error)

	// MaxSequence returns the highest sequence number recorded for a memo,
	// or 0 when the memo has no entries.
	MaxSequence(ctx context.Context, memoID string) (int64, error)
}

// NotificationRepository defines persistence operations for StatusNotification
type NotificationRepository interface {
	Create(ctx context.Context, n *entity.StatusNotification) error
	GetByMemoID(ctx context.Context, memoID string) ([]*entity.StatusNotification, error)
	MarkSent(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, id int64, errorMsg string) error
}

// TransactionManager handles database transactions
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
