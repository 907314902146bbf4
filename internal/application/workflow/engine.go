package workflow

import (
	"context"
	"errors"

	"github.com/deskhq/memoflow/internal/domain/entity"
	domainwf "github.com/deskhq/memoflow/internal/domain/workflow"
)

var (
	// ErrMemoNotFound is returned when no memo exists for the given ID
	ErrMemoNotFound = errors.New("memo not found")

	// ErrVersionConflict is returned when a concurrent writer committed first.
	// The caller should reload the memo and retry with the new version.
	ErrVersionConflict = errors.New("memo was modified concurrently")

	// ErrPersistence is returned when the store fails; the transition did not
	// commit and the memo is unchanged.
	ErrPersistence = errors.New("persistence failure")
)

// ApplyRequest carries one requested workflow transition. The actor is
// assumed to be already authenticated; the engine only gates on the role.
type ApplyRequest struct {
	MemoID    string
	Action    domainwf.Action
	ActorID   string
	ActorRole domainwf.Role
	Comment   string

	// ExpectedVersion enables optimistic concurrency: when > 0 the apply
	// fails with ErrVersionConflict unless the stored memo is still at that
	// version. Zero skips the check.
	ExpectedVersion int64
}

// Engine orchestrates memo workflow transitions. It is the only component
// allowed to mutate a memo's status, version and history.
type Engine interface {
	// CreateDraft constructs a new memo in the initial state with its
	// implicit creation history entry.
	CreateDraft(ctx context.Context, content *entity.MemoContent) (*entity.Memo, error)

	// Apply executes one transition: validate, persist atomically, notify.
	// A rejected apply leaves the stored memo provably unchanged.
	Apply(ctx context.Context, req ApplyRequest) (*entity.Memo, error)

	// GetMemo retrieves a memo by ID
	GetMemo(ctx context.Context, memoID string) (*entity.Memo, error)

	// GetHistory retrieves a memo's audit trail ordered by sequence number
	GetHistory(ctx context.Context, memoID string) ([]*entity.WorkflowHistoryEntry, error)

	// ListMemos retrieves memos, newest first, optionally filtered by status
	ListMemos(ctx context.Context, status string, limit, offset int) ([]*entity.Memo, error)
}
