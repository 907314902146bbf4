package entity

import "time"

// Memo is the subject of the approval workflow. Status, Version and the
// history trail are owned exclusively by the workflow engine; the content
// fields are an opaque payload authored elsewhere and only ever read here.
type Memo struct {
	ID         string    `json:"id"`
	Status     string    `json:"status"`
	Priority   string    `json:"priority"`
	Version    int64     `json:"version"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	Recipients string    `json:"recipients"`
	Department string    `json:"department"`
	IssuedAt   time.Time `json:"issued_at"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// MemoContent carries the author-supplied payload for a new draft
type MemoContent struct {
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	Recipients string    `json:"recipients"`
	Department string    `json:"department"`
	Priority   string    `json:"priority"`
	IssuedAt   time.Time `json:"issued_at"`
	AuthorID   string    `json:"author_id"`
}
