package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/deskhq/memoflow/internal/application/port"
	"github.com/deskhq/memoflow/internal/domain/entity"
)

// MemoRepository implements port.MemoRepository
type MemoRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewMemoRepository creates a new memo repository
func NewMemoRepository(db *sql.DB, logger *zap.Logger) port.MemoRepository {
	return &MemoRepository{
		db:     db,
		logger: logger,
	}
}

// Create persists a new memo
func (r *MemoRepository) Create(ctx context.Context, memo *entity.Memo) error {
	query := `
		INSERT INTO memos (
			id, status, priority, version, title, body, recipients,
			department, issued_at, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		memo.ID,
		memo.Status,
		memo.Priority,
		memo.Version,
		memo.Title,
		memo.Body,
		memo.Recipients,
		memo.Department,
		memo.IssuedAt,
		memo.CreatedAt,
		memo.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create memo", zap.String("memo_id", memo.ID), zap.Error(err))
		return fmt.Errorf("failed to create memo: %w", err)
	}

	return nil
}

// GetByID retrieves a memo by ID. Returns (nil, nil) when no memo exists.
func (r *MemoRepository) GetByID(ctx context.Context, id string) (*entity.Memo, error) {
	query := `
		SELECT id, status, priority, version, title, body, recipients,
			department, issued_at, created_at, updated_at
		FROM memos
		WHERE id = ?
	`

	var memo entity.Memo
	err := getExecutor(ctx, r.db).QueryRowContext(ctx, query, id).Scan(
		&memo.ID,
		&memo.Status,
		&memo.Priority,
		&memo.Version,
		&memo.Title,
		&memo.Body,
		&memo.Recipients,
		&memo.Department,
		&memo.IssuedAt,
		&memo.CreatedAt,
		&memo.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get memo by ID", zap.String("memo_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get memo: %w", err)
	}

	return &memo, nil
}

// UpdateStatusVersion is the compare-and-save step of the optimistic
// concurrency protocol: the update applies only if the stored version still
// equals expectedVersion, and bumps the version in the same statement.
func (r *MemoRepository) UpdateStatusVersion(ctx context.Context, id, status string, expectedVersion int64) (bool, error) {
	query := `
		UPDATE memos
		SET status = ?, version = version + 1, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND version = ?
	`

	result, err := getExecutor(ctx, r.db).ExecContext(ctx, query, status, id, expectedVersion)
	if err != nil {
		r.logger.Error("Failed to update memo status",
			zap.String("memo_id", id),
			zap.String("status", status),
			zap.Error(err))
		return false, fmt.Errorf("failed to update memo status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}

	return affected == 1, nil
}

// List retrieves memos ordered by creation time, newest first
func (r *MemoRepository) List(ctx context.Context, status string, limit, offset int) ([]*entity.Memo, error) {
	query := `
		SELECT id, status, priority, version, title, body, recipients,
			department, issued_at, created_at, updated_at
		FROM memos
		WHERE (? = '' OR status = ?)
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`

	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query, status, status, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list memos", zap.Error(err))
		return nil, fmt.Errorf("failed to list memos: %w", err)
	}
	defer rows.Close()

	var memos []*entity.Memo
	for rows.Next() {
		var memo entity.Memo
		err := rows.Scan(
			&memo.ID,
			&memo.Status,
			&memo.Priority,
			&memo.Version,
			&memo.Title,
			&memo.Body,
			&memo.Recipients,
			&memo.Department,
			&memo.IssuedAt,
			&memo.CreatedAt,
			&memo.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan memo: %w", err)
		}
		memos = append(memos, &memo)
	}

	return memos, rows.Err()
}

// Verify interface compliance
var _ port.MemoRepository = (*MemoRepository)(nil)
