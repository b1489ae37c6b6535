// Package forms validates the site's article and contact forms and submits
// them to the email relay.
package forms

import (
	"encoding/base64"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Kind names a form.
type Kind string

const (
	KindArticle Kind = "article"
	KindContact Kind = "contact"
)

// ErrUnknownKind is returned for a submission of no known kind.
var ErrUnknownKind = errors.New("invalid submission type")

var requiredFields = map[Kind][]string{
	KindArticle: {"authorName", "authorEmail", "articleTitle", "articleContent"},
	KindContact: {"name", "email", "subject", "message"},
}

var emailFields = map[Kind]string{
	KindArticle: "authorEmail",
	KindContact: "email",
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Valid reports whether k is a known form kind.
func (k Kind) Valid() bool {
	_, ok := requiredFields[k]
	return ok
}

// RequiredFields lists the fields a submission of kind k must carry.
func RequiredFields(k Kind) []string {
	return append([]string(nil), requiredFields[k]...)
}

// EmailField is the field of kind k holding the submitter's address.
func EmailField(k Kind) string {
	return emailFields[k]
}

// ValidEmail applies the local@domain.tld shape check.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// Fields maps form field names to their values.
type Fields map[string]string

func (f Fields) clone() Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Attachment is a file carried with an article submission.
type Attachment struct {
	Filename string `json:"filename"`
	Base64   string `json:"base64"`
}

// NewAttachment encodes data for transport.
func NewAttachment(filename string, data []byte) *Attachment {
	return &Attachment{Filename: filename, Base64: base64.StdEncoding.EncodeToString(data)}
}

// Submission is one form's payload.
type Submission struct {
	Kind       Kind
	Fields     Fields
	Attachment *Attachment
}

// Trimmed returns a copy with every field value trimmed.
func (s Submission) Trimmed() Submission {
	out := Submission{Kind: s.Kind, Fields: make(Fields, len(s.Fields)), Attachment: s.Attachment}
	for k, v := range s.Fields {
		out.Fields[k] = strings.TrimSpace(v)
	}
	return out
}

// Payload is the JSON body sent to the relay: the kind under "type", the
// trimmed fields, and the attachment when present.
func (s Submission) Payload() map[string]any {
	t := s.Trimmed()
	body := make(map[string]any, len(t.Fields)+2)
	for k, v := range t.Fields {
		body[k] = v
	}
	body["type"] = string(s.Kind)
	if s.Kind == KindArticle && s.Attachment != nil && s.Attachment.Base64 != "" {
		body["attachment"] = s.Attachment
	}
	return body
}

// ValidationError lists the fields that stopped a submission before it was
// sent.
type ValidationError struct {
	Kind    Kind
	Missing []string
	Invalid []string
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "invalid "+strings.Join(e.Invalid, ", "))
	}
	return fmt.Sprintf("%s form: %s", e.Kind, strings.Join(parts, "; "))
}

// Message is the text shown to the user.
func (e *ValidationError) Message() string {
	if len(e.Missing) > 0 {
		return "Please fill in all required fields."
	}
	return "Please enter a valid email address."
}

// Validate checks required fields and the email shape. It returns a
// *ValidationError, or ErrUnknownKind for an unknown kind.
func Validate(s Submission) error {
	required, ok := requiredFields[s.Kind]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKind, s.Kind)
	}
	t := s.Trimmed()
	verr := &ValidationError{Kind: s.Kind}
	for _, name := range required {
		if t.Fields[name] == "" {
			verr.Missing = append(verr.Missing, name)
		}
	}
	if email := emailFields[s.Kind]; t.Fields[email] != "" && !ValidEmail(t.Fields[email]) {
		verr.Invalid = append(verr.Invalid, email)
	}
	if len(verr.Missing) > 0 || len(verr.Invalid) > 0 {
		return verr
	}
	return nil
}
