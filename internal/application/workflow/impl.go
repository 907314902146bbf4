package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/deskhq/memoflow/internal/application/dispatcher"
	"github.com/deskhq/memoflow/internal/application/port"
	"github.com/deskhq/memoflow/internal/domain/entity"
	"github.com/deskhq/memoflow/internal/domain/event"
	domainwf "github.com/deskhq/memoflow/internal/domain/workflow"
)

// Logger is the minimal logging surface the engine needs
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// engineImpl is the concrete implementation of Engine
type engineImpl struct {
	memoRepo    port.MemoRepository
	historyRepo port.HistoryRepository
	txManager   port.TransactionManager
	dispatcher  dispatcher.Dispatcher
	logger      Logger
	now         func() time.Time
}

// EngineOption configures the workflow engine
type EngineOption func(*engineImpl)

// WithDispatcher sets the event dispatcher for emitting events after commit
func WithDispatcher(d dispatcher.Dispatcher) EngineOption {
	return func(e *engineImpl) {
		e.dispatcher = d
	}
}

// WithClock overrides the engine's time source
func WithClock(now func() time.Time) EngineOption {
	return func(e *engineImpl) {
		e.now = now
	}
}

// NewEngine creates a new workflow engine
func NewEngine(
	memoRepo port.MemoRepository,
	historyRepo port.HistoryRepository,
	txManager port.TransactionManager,
	logger Logger,
	opts ...EngineOption,
) Engine {
	e := &engineImpl{
		memoRepo:    memoRepo,
		historyRepo: historyRepo,
		txManager:   txManager,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// CreateDraft constructs a new memo in DRAFT at version 1 with the implicit
// creation history entry. It does not consult the validator: there is no
// prior state.
func (e *engineImpl) CreateDraft(ctx context.Context, content *entity.MemoContent) (*entity.Memo, error) {
	if content == nil {
		return nil, fmt.Errorf("memo content cannot be nil")
	}

	priority := content.Priority
	if priority == "" {
		priority = entity.PriorityNormal
	}

	now := e.now()
	memo := &entity.Memo{
		ID:         uuid.NewString(),
		Status:     domainwf.InitialState.String(),
		Priority:   priority,
		Version:    1,
		Title:      content.Title,
		Body:       content.Body,
		Recipients: content.Recipients,
		Department: content.Department,
		IssuedAt:   content.IssuedAt,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err := e.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := e.memoRepo.Create(txCtx, memo); err != nil {
			return fmt.Errorf("create memo: %w", err)
		}

		entry := &entity.WorkflowHistoryEntry{
			MemoID:          memo.ID,
			SequenceNumber:  1,
			ActorID:         content.AuthorID,
			TimestampUTC:    now,
			ResultingStatus: memo.Status,
		}
		if err := e.historyRepo.Append(txCtx, entry); err != nil {
			return fmt.Errorf("append creation entry: %w", err)
		}

		return nil
	})
	if err != nil {
		e.logger.Error("Failed to create draft", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	if e.dispatcher != nil {
		e.dispatcher.DispatchAsync(ctx, event.NewEvent(event.TypeMemoCreated, memo.ID,
			map[string]interface{}{
				"status":   memo.Status,
				"actor_id": content.AuthorID,
			}))
	}

	return memo, nil
}

// Apply executes one workflow transition. The commit point is the store
// transaction: a failure anywhere before or inside it leaves the memo
// unchanged, and notification happens only after confirmed persistence.
func (e *engineImpl) Apply(ctx context.Context, req ApplyRequest) (*entity.Memo, error) {
	memo, err := e.memoRepo.GetByID(ctx, req.MemoID)
	if err != nil {
		return nil, fmt.Errorf("%w: load memo: %w", ErrPersistence, err)
	}
	if memo == nil {
		return nil, fmt.Errorf("%w: %s", ErrMemoNotFound, req.MemoID)
	}

	if req.ExpectedVersion > 0 && req.ExpectedVersion != memo.Version {
		return nil, fmt.Errorf("%w: expected version %d, stored version %d",
			ErrVersionConflict, req.ExpectedVersion, memo.Version)
	}

	previousStatus := domainwf.State(memo.Status)
	nextStatus, err := domainwf.Validate(previousStatus, req.Action, req.ActorRole, req.Comment)
	if err != nil {
		// Expected user-input outcome, resolved locally; not a system failure
		return nil, err
	}

	now := e.now()
	err = e.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		updated, err := e.memoRepo.UpdateStatusVersion(txCtx, memo.ID, nextStatus.String(), memo.Version)
		if err != nil {
			return fmt.Errorf("%w: update status: %w", ErrPersistence, err)
		}
		if !updated {
			return fmt.Errorf("%w: memo %s moved past version %d",
				ErrVersionConflict, memo.ID, memo.Version)
		}

		maxSeq, err := e.historyRepo.MaxSequence(txCtx, memo.ID)
		if err != nil {
			return fmt.Errorf("%w: read history sequence: %w", ErrPersistence, err)
		}

		entry := &entity.WorkflowHistoryEntry{
			MemoID:          memo.ID,
			SequenceNumber:  maxSeq + 1,
			ActorID:         req.ActorID,
			ActorRole:       req.ActorRole.String(),
			Action:          req.Action.String(),
			Comment:         req.Comment,
			TimestampUTC:    now,
			ResultingStatus: nextStatus.String(),
		}
		if err := e.historyRepo.Append(txCtx, entry); err != nil {
			return fmt.Errorf("%w: append history entry: %w", ErrPersistence, err)
		}

		return nil
	})
	if err != nil {
		e.logger.Error("Transition did not commit",
			"memo_id", memo.ID,
			"action", req.Action,
			"error", err,
		)
		return nil, err
	}

	// Return the authoritative post-commit copy, never the caller-held one
	applied, err := e.memoRepo.GetByID(ctx, memo.ID)
	if err != nil || applied == nil {
		return nil, fmt.Errorf("%w: reload memo after commit: %v", ErrPersistence, err)
	}

	e.logger.Info("Workflow transition applied",
		"memo_id", memo.ID,
		"action", req.Action,
		"previous_status", previousStatus,
		"new_status", applied.Status,
		"actor_id", req.ActorID,
	)

	if e.dispatcher != nil {
		e.dispatcher.DispatchAsync(ctx, event.NewEvent(event.TypeStatusChanged, memo.ID,
			map[string]interface{}{
				"previous_status": previousStatus.String(),
				"new_status":      applied.Status,
				"action":          req.Action.String(),
				"actor_id":        req.ActorID,
				"actor_role":      req.ActorRole.String(),
				"comment":         req.Comment,
			}))
	}

	return applied, nil
}

// GetMemo retrieves a memo by ID
func (e *engineImpl) GetMemo(ctx context.Context, memoID string) (*entity.Memo, error) {
	memo, err := e.memoRepo.GetByID(ctx, memoID)
	if err != nil {
		return nil, fmt.Errorf("%w: load memo: %w", ErrPersistence, err)
	}
	if memo == nil {
		return nil, fmt.Errorf("%w: %s", ErrMemoNotFound, memoID)
	}
	return memo, nil
}

// GetHistory retrieves a memo's audit trail ordered by sequence number
func (e *engineImpl) GetHistory(ctx context.Context, memoID string) ([]*entity.WorkflowHistoryEntry, error) {
	memo, err := e.memoRepo.GetByID(ctx, memoID)
	if err != nil {
		return nil, fmt.Errorf("%w: load memo: %w", ErrPersistence, err)
	}
	if memo == nil {
		return nil, fmt.Errorf("%w: %s", ErrMemoNotFound, memoID)
	}

	entries, err := e.historyRepo.GetByMemoID(ctx, memoID)
	if err != nil {
		return nil, fmt.Errorf("%w: load history: %w", ErrPersistence, err)
	}
	return entries, nil
}

// ListMemos retrieves memos, newest first, optionally filtered by status
func (e *engineImpl) ListMemos(ctx context.Context, status string, limit, offset int) ([]*entity.Memo, error) {
	memos, err := e.memoRepo.List(ctx, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%w: list memos: %w", ErrPersistence, err)
	}
	return memos, nil
}
