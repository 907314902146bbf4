package entity

import "time"

// WorkflowHistoryEntry is one immutable record in a memo's audit trail.
// Entries are append-only: once written they are never edited or removed.
// Replaying the recorded actions in sequence order from the initial state
// reproduces the memo's current status.
type WorkflowHistoryEntry struct {
	ID              int64     `json:"id"`
	MemoID          string    `json:"memo_id"`
	SequenceNumber  int64     `json:"sequence_number"`
	ActorID         string    `json:"actor_id"`
	ActorRole       string    `json:"actor_role"`
	Action          string    `json:"action"`
	Comment         string    `json:"comment"`
	TimestampUTC    time.Time `json:"timestamp_utc"`
	ResultingStatus string    `json:"resulting_status"`
}

// IsCreationEntry reports whether this is the implicit entry written when the
// memo was created. It is the only entry allowed to carry no action, role or
// comment.
func (e *WorkflowHistoryEntry) IsCreationEntry() bool {
	return e.SequenceNumber == 1 && e.Action == ""
}
