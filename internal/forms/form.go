package forms

import (
	"context"
	"errors"
	"sync"
)

// BusyLabel replaces the submit label while a submission is in flight.
const BusyLabel = "Sending..."

// ErrBusy rejects a submit while one is already in flight.
var ErrBusy = errors.New("submission already in progress")

// Phase is a form's submission state.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseSubmitting Phase = "submitting"
	PhaseError      Phase = "error"
)

var submitLabels = map[Kind]string{
	KindArticle: "Submit Article",
	KindContact: "Send Message",
}

// Submitter sends a validated submission; *Client implements it.
type Submitter interface {
	Submit(ctx context.Context, s Submission) (string, error)
}

// Form is the state machine for one form: idle -> submitting -> idle|error.
// A successful submit clears the values; a failed one keeps them.
type Form struct {
	mu         sync.Mutex
	kind       Kind
	submitter  Submitter
	phase      Phase
	values     Fields
	attachment *Attachment
	err        error
}

// NewForm creates an idle form of kind k.
func NewForm(k Kind, submitter Submitter) *Form {
	return &Form{kind: k, submitter: submitter, phase: PhaseIdle, values: Fields{}}
}

// Snapshot is a point-in-time copy of a form.
type Snapshot struct {
	Kind   Kind
	Phase  Phase
	Values Fields
	// Attachment is the attached file name, if any.
	Attachment string
	Err        error
	// Label is the submit control text.
	Label string
}

// Busy reports whether the submit control is disabled.
func (s Snapshot) Busy() bool { return s.Phase == PhaseSubmitting }

// Value returns a field value.
func (s Snapshot) Value(field string) string { return s.Values[field] }

// Set records one field value. Edits while submitting are ignored.
func (f *Form) Set(field, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.phase == PhaseSubmitting {
		return
	}
	f.values[field] = value
}

// SetValues replaces all field values.
func (f *Form) SetValues(values Fields) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.phase == PhaseSubmitting {
		return
	}
	f.values = values.clone()
}

// Attach sets or clears the attachment.
func (f *Form) Attach(a *Attachment) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.phase == PhaseSubmitting {
		return
	}
	f.attachment = a
}

// Submit validates and sends the current values. It holds the form in the
// submitting phase until the submitter returns.
func (f *Form) Submit(ctx context.Context) (string, error) {
	f.mu.Lock()
	if f.phase == PhaseSubmitting {
		f.mu.Unlock()
		return "", ErrBusy
	}
	sub := Submission{Kind: f.kind, Fields: f.values.clone(), Attachment: f.attachment}
	if err := Validate(sub); err != nil {
		f.phase, f.err = PhaseError, err
		f.mu.Unlock()
		return "", err
	}
	f.phase, f.err = PhaseSubmitting, nil
	f.mu.Unlock()

	msg, err := f.submitter.Submit(ctx, sub)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.phase, f.err = PhaseError, err
		return "", err
	}
	f.phase = PhaseIdle
	f.values = Fields{}
	f.attachment = nil
	return msg, nil
}

// Reset clears values and errors unless a submission is in flight.
func (f *Form) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.phase == PhaseSubmitting {
		return
	}
	f.phase, f.err = PhaseIdle, nil
	f.values = Fields{}
	f.attachment = nil
}

// Snapshot copies the form's state.
func (f *Form) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := Snapshot{
		Kind:   f.kind,
		Phase:  f.phase,
		Values: f.values.clone(),
		Err:    f.err,
		Label:  submitLabels[f.kind],
	}
	if f.attachment != nil {
		s.Attachment = f.attachment.Filename
	}
	if f.phase == PhaseSubmitting {
		s.Label = BusyLabel
	}
	return s
}
