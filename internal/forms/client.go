package forms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// DefaultEndpoint is the relay path the site posts to.
const DefaultEndpoint = "/.netlify/functions/send-email"

// GenericFailure is reported when the relay gives no reason.
const GenericFailure = "Submission failed"

// ErrSubmissionTransport marks a failed call to the relay.
var ErrSubmissionTransport = errors.New("submission transport error")

var defaultSuccess = map[Kind]string{
	KindArticle: "Article submitted successfully!",
	KindContact: "Message sent successfully!",
}

// DefaultSuccess is the message shown when the relay sends none.
func DefaultSuccess(k Kind) string {
	return defaultSuccess[k]
}

// SubmissionError is a relay rejection or a transport failure. It matches
// ErrSubmissionTransport under errors.Is.
type SubmissionError struct {
	// Status is the relay's HTTP status, 0 when no response arrived.
	Status  int
	Message string
	Err     error
}

func (e *SubmissionError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("submission failed (%d): %s", e.Status, e.Message)
	}
	return "submission failed: " + e.Message
}

func (e *SubmissionError) Unwrap() error { return e.Err }

func (e *SubmissionError) Is(target error) bool { return target == ErrSubmissionTransport }

// UserMessage is the text shown to the user.
func (e *SubmissionError) UserMessage() string {
	return "Failed to send: " + e.Message
}

type relayResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Client posts submissions to the relay.
type Client struct {
	Endpoint string
	HTTP     *http.Client
}

// NewClient creates a Client for endpoint. Requests have no timeout of their
// own; callers bound them with the context.
func NewClient(endpoint string) *Client {
	return &Client{Endpoint: endpoint, HTTP: &http.Client{}}
}

// Submit validates s and, when valid, sends it in exactly one request. It
// returns the relay's success message or a per-kind default.
func (c *Client) Submit(ctx context.Context, s Submission) (string, error) {
	if err := Validate(s); err != nil {
		return "", err
	}

	body, err := json.Marshal(s.Payload())
	if err != nil {
		return "", fmt.Errorf("encoding submission: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", &SubmissionError{Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	var result relayResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&result)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 && decodeErr == nil && result.Success {
		if result.Message != "" {
			return result.Message, nil
		}
		return DefaultSuccess(s.Kind), nil
	}

	msg := result.Error
	if msg == "" {
		msg = GenericFailure
	}
	return "", &SubmissionError{Status: resp.StatusCode, Message: msg}
}
