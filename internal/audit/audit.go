// Package audit keeps the relay's submission log: one row per delivery
// attempt, sent or failed.
package audit

import "time"

// Status is the outcome of a delivery attempt.
type Status string

const (
	StatusSent   Status = "sent"
	StatusFailed Status = "failed"
)

// Entry is a single submission record.
type Entry struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"created_at"`
	Type       string    `json:"type"`
	ReplyTo    string    `json:"reply_to"`
	Subject    string    `json:"subject"`
	Attachment string    `json:"attachment,omitempty"`
	Status     Status    `json:"status"`
	Error      string    `json:"error,omitempty"`
	RemoteAddr string    `json:"remote_addr,omitempty"`
}
