// Package notifications delivers relay events to webhook subscribers, such
// as a chat channel the editors watch.
package notifications

import "time"

// EventType identifies what happened.
type EventType string

const (
	EventSubmissionSent   EventType = "submission.sent"
	EventSubmissionFailed EventType = "submission.failed"
)

// Event is the JSON payload POSTed to every matching webhook.
type Event struct {
	ID             string    `json:"id"`
	Type           EventType `json:"type"`
	SubmissionType string    `json:"submission_type"`
	Subject        string    `json:"subject"`
	ReplyTo        string    `json:"reply_to,omitempty"`
	Attachment     string    `json:"attachment,omitempty"`
	Error          string    `json:"error,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

// Hook is one webhook subscriber.
type Hook struct {
	URL string `yaml:"url" koanf:"url"`
	// FailuresOnly limits the hook to submission.failed events.
	FailuresOnly bool `yaml:"failures_only" koanf:"failures_only"`
}

func (h Hook) matches(e Event) bool {
	return !h.FailuresOnly || e.Type == EventSubmissionFailed
}
