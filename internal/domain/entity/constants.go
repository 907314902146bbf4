package entity

// Priority constants for Memo. Priority is carried as metadata only and never
// affects which transitions are legal.
const (
	PriorityNormal       = "NORMAL"
	PriorityUrgent       = "URGENT"
	PriorityConfidential = "CONFIDENTIAL"
)

// Notification status constants
const (
	NotificationStatusPending = "PENDING"
	NotificationStatusSent    = "SENT"
	NotificationStatusFailed  = "FAILED"
)
