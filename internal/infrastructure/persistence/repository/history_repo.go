package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/deskhq/memoflow/internal/application/port"
	"github.com/deskhq/memoflow/internal/domain/entity"
)

// HistoryRepository implements port.HistoryRepository. The table is
// append-only; this type exposes no update or delete and the
// (memo_id, sequence_number) unique constraint rejects rewrites.
type HistoryRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewHistoryRepository creates a new history repository
func NewHistoryRepository(db *sql.DB, logger *zap.Logger) port.HistoryRepository {
	return &HistoryRepository{
		db:     db,
		logger: logger,
	}
}

// Append writes a new history entry
func (r *HistoryRepository) Append(ctx context.Context, entry *entity.WorkflowHistoryEntry) error {
	query := `
		INSERT INTO workflow_history (
			memo_id, sequence_number, actor_id, actor_role, action,
			comment, timestamp_utc, resulting_status
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		entry.MemoID,
		entry.SequenceNumber,
		entry.ActorID,
		entry.ActorRole,
		entry.Action,
		entry.Comment,
		entry.TimestampUTC,
		entry.ResultingStatus,
	)
	if err != nil {
		r.logger.Error("Failed to append history entry",
			zap.String("memo_id", entry.MemoID),
			zap.Int64("sequence", entry.SequenceNumber),
			zap.Error(err))
		return fmt.Errorf("failed to append history entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	entry.ID = id
	return nil
}

// GetByMemoID retrieves all entries for a memo ordered by sequence number
func (r *HistoryRepository) GetByMemoID(ctx context.Context, memoID string) ([]*entity.WorkflowHistoryEntry, error) {
	query := `
		SELECT id, memo_id, sequence_number, actor_id, actor_role, action,
			comment, timestamp_utc, resulting_status
		FROM workflow_history
		WHERE memo_id = ?
		ORDER BY sequence_number ASC
	`

	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query, memoID)
	if err != nil {
		r.logger.Error("Failed to get history", zap.String("memo_id", memoID), zap.Error(err))
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	defer rows.Close()

	var entries []*entity.WorkflowHistoryEntry
	for rows.Next() {
		var entry entity.WorkflowHistoryEntry
		err := rows.Scan(
			&entry.ID,
			&entry.MemoID,
			&entry.SequenceNumber,
			&entry.ActorID,
			&entry.ActorRole,
			&entry.Action,
			&entry.Comment,
			&entry.TimestampUTC,
			&entry.ResultingStatus,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		entries = append(entries, &entry)
	}

	return entries, rows.Err()
}

// MaxSequence returns the highest sequence number recorded for a memo
func (r *HistoryRepository) MaxSequence(ctx context.Context, memoID string) (int64, error) {
	query := `SELECT COALESCE(MAX(sequence_number), 0) FROM workflow_history WHERE memo_id = ?`

	var max int64
	if err := getExecutor(ctx, r.db).QueryRowContext(ctx, query, memoID).Scan(&max); err != nil {
		r.logger.Error("Failed to read max sequence", zap.String("memo_id", memoID), zap.Error(err))
		return 0, fmt.Errorf("failed to read max sequence: %w", err)
	}

	return max, nil
}

// Verify interface compliance
var _ port.HistoryRepository = (*HistoryRepository)(nil)
