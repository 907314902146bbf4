package entity

import "time"

// StatusNotification is the delivery bookkeeping row for one status-change
// notification. Delivery is best-effort: a failed send is recorded here and
// never affects the committed transition.
type StatusNotification struct {
	ID           int64      `json:"id"`
	MemoID       string     `json:"memo_id"`
	Recipient    string     `json:"recipient"`
	NewStatus    string     `json:"new_status"`
	ActorID      string     `json:"actor_id"`
	Message      string     `json:"message"`
	Status       string     `json:"status"`
	ErrorMessage string     `json:"error_message,omitempty"`
	SentAt       *time.Time `json:"sent_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
