package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deskhq/memoflow/internal/domain/entity"
	"github.com/deskhq/memoflow/internal/domain/event"
)

type mockMemoRepo struct {
	memo *entity.Memo
}

func (m *mockMemoRepo) Create(ctx context.Context, memo *entity.Memo) error { return nil }

func (m *mockMemoRepo) GetByID(ctx context.Context, id string) (*entity.Memo, error) {
	if m.memo != nil && m.memo.ID == id {
		return m.memo, nil
	}
	return nil, nil
}

func (m *mockMemoRepo) UpdateStatusVersion(ctx context.Context, id, status string, expectedVersion int64) (bool, error) {
	return true, nil
}

func (m *mockMemoRepo) List(ctx context.Context, status string, limit, offset int) ([]*entity.Memo, error) {
	return nil, nil
}

type mockHistoryRepo struct {
	entries []*entity.WorkflowHistoryEntry
}

func (m *mockHistoryRepo) Append(ctx context.Context, entry *entity.WorkflowHistoryEntry) error {
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockHistoryRepo) GetByMemoID(ctx context.Context, memoID string) ([]*entity.WorkflowHistoryEntry, error) {
	return m.entries, nil
}

func (m *mockHistoryRepo) MaxSequence(ctx context.Context, memoID string) (int64, error) {
	return int64(len(m.entries)), nil
}

type mockNotificationRepo struct {
	created    []*entity.StatusNotification
	sentIDs    []int64
	failedIDs  []int64
	failedMsgs []string
}

func (m *mockNotificationRepo) Create(ctx context.Context, n *entity.StatusNotification) error {
	n.ID = int64(len(m.created) + 1)
	m.created = append(m.created, n)
	return nil
}

func (m *mockNotificationRepo) GetByMemoID(ctx context.Context, memoID string) ([]*entity.StatusNotification, error) {
	return m.created, nil
}

func (m *mockNotificationRepo) MarkSent(ctx context.Context, id int64) error {
	m.sentIDs = append(m.sentIDs, id)
	return nil
}

func (m *mockNotificationRepo) MarkFailed(ctx context.Context, id int64, errorMsg string) error {
	m.failedIDs = append(m.failedIDs, id)
	m.failedMsgs = append(m.failedMsgs, errorMsg)
	return nil
}

type mockNotifier struct {
	notifyErr error
	delivered []*entity.StatusNotification
}

func (m *mockNotifier) Notify(ctx context.Context, n *entity.StatusNotification) error {
	if m.notifyErr != nil {
		return m.notifyErr
	}
	m.delivered = append(m.delivered, n)
	return nil
}

type nopLogger struct{}

func (nopLogger) Info(msg string, keysAndValues ...interface{})  {}
func (nopLogger) Error(msg string, keysAndValues ...interface{}) {}

func statusChangedFixture() (*mockMemoRepo, *mockHistoryRepo, *event.Event) {
	memoRepo := &mockMemoRepo{
		memo: &entity.Memo{
			ID:      "memo-1",
			Title:   "Q3 budget revision",
			Status:  "PENDING_DESK_HEAD",
			Version: 2,
		},
	}
	historyRepo := &mockHistoryRepo{
		entries: []*entity.WorkflowHistoryEntry{
			{MemoID: "memo-1", SequenceNumber: 1, ActorID: "user-creator", ResultingStatus: "DRAFT", TimestampUTC: time.Now().UTC()},
			{MemoID: "memo-1", SequenceNumber: 2, ActorID: "user-creator", ActorRole: "CREATOR", Action: "SUBMIT_TO_DESK_HEAD", Comment: "ready", ResultingStatus: "PENDING_DESK_HEAD", TimestampUTC: time.Now().UTC()},
		},
	}
	evt := event.NewEvent(event.TypeStatusChanged, "memo-1", map[string]interface{}{
		"previous_status": "DRAFT",
		"new_status":      "PENDING_DESK_HEAD",
		"action":          "SUBMIT_TO_DESK_HEAD",
		"actor_id":        "user-creator",
		"actor_role":      "CREATOR",
		"comment":         "ready",
	})
	return memoRepo, historyRepo, evt
}

func TestHandleStatusChanged_DeliversToCreator(t *testing.T) {
	memoRepo, historyRepo, evt := statusChangedFixture()
	notificationRepo := &mockNotificationRepo{}
	notifier := &mockNotifier{}

	svc := NewNotificationService(memoRepo, historyRepo, notificationRepo, notifier, time.Second, nopLogger{})

	err := svc.HandleStatusChanged(context.Background(), evt)
	require.NoError(t, err)

	require.Len(t, notificationRepo.created, 1)
	n := notificationRepo.created[0]
	assert.Equal(t, "memo-1", n.MemoID)
	assert.Equal(t, "user-creator", n.Recipient)
	assert.Equal(t, "PENDING_DESK_HEAD", n.NewStatus)
	assert.Contains(t, n.Message, "Q3 budget revision")

	require.Len(t, notifier.delivered, 1)
	assert.Equal(t, []int64{1}, notificationRepo.sentIDs)
	assert.Empty(t, notificationRepo.failedIDs)
}

func TestHandleStatusChanged_DeliveryFailureIsRecordedNotSwallowed(t *testing.T) {
	memoRepo, historyRepo, evt := statusChangedFixture()
	notificationRepo := &mockNotificationRepo{}
	notifier := &mockNotifier{notifyErr: errors.New("gateway timeout")}

	svc := NewNotificationService(memoRepo, historyRepo, notificationRepo, notifier, time.Second, nopLogger{})

	err := svc.HandleStatusChanged(context.Background(), evt)
	require.ErrorIs(t, err, ErrDelivery)

	// The row exists and is marked FAILED; the transition itself is long
	// committed and unaffected.
	require.Len(t, notificationRepo.created, 1)
	assert.Equal(t, []int64{1}, notificationRepo.failedIDs)
	assert.Contains(t, notificationRepo.failedMsgs[0], "gateway timeout")
	assert.Empty(t, notificationRepo.sentIDs)
}

func TestHandleStatusChanged_UnknownMemo(t *testing.T) {
	memoRepo := &mockMemoRepo{}
	historyRepo := &mockHistoryRepo{}
	notificationRepo := &mockNotificationRepo{}

	svc := NewNotificationService(memoRepo, historyRepo, notificationRepo, &mockNotifier{}, time.Second, nopLogger{})

	evt := event.NewEvent(event.TypeStatusChanged, "no-such-memo", nil)
	err := svc.HandleStatusChanged(context.Background(), evt)
	require.Error(t, err)
	assert.Empty(t, notificationRepo.created)
}
