// Package relay is the email relay: an HTTP endpoint that turns a site form
// submission into an outbound email.
package relay

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/bytetobeacon/beacon/internal/forms"
)

// MaxBodyBytes bounds a submission, attachment included.
const MaxBodyBytes = 10 << 20

var (
	// ErrMissingFields rejects a submission without its required fields.
	ErrMissingFields = errors.New("missing required fields")
	// ErrInvalidType rejects a submission of no known type.
	ErrInvalidType = errors.New("invalid submission type")
	// ErrBadRequest rejects a body that cannot be decoded.
	ErrBadRequest = errors.New("invalid request body")
)

// multipart file parts carrying an article attachment.
var fileParts = []string{"pdfFile", "articleFile"}

// Attachment is a decoded file.
type Attachment struct {
	Filename string
	Content  []byte
}

// Submission is a decoded relay request.
type Submission struct {
	Kind       forms.Kind
	Fields     map[string]string
	Attachment *Attachment
}

// Field returns a trimmed field value.
func (s *Submission) Field(name string) string {
	return strings.TrimSpace(s.Fields[name])
}

// ReplyTo is the submitter's address.
func (s *Submission) ReplyTo() string {
	return s.Field(forms.EmailField(s.Kind))
}

// Validate checks the type and required fields.
func (s *Submission) Validate() error {
	if !s.Kind.Valid() {
		return ErrInvalidType
	}
	for _, name := range forms.RequiredFields(s.Kind) {
		if s.Field(name) == "" {
			return ErrMissingFields
		}
	}
	return nil
}

type jsonAttachment struct {
	Filename string `json:"filename"`
	Base64   string `json:"base64"`
}

// Decode reads a JSON or multipart submission from r. A multipart body
// without a type field is an article submission.
func Decode(r *http.Request) (*Submission, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		return decodeMultipart(r)
	}
	return decodeJSON(r.Body)
}

func decodeJSON(body io.Reader) (*Submission, error) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}

	sub := &Submission{Fields: make(map[string]string, len(raw))}
	for k, v := range raw {
		switch k {
		case "type":
			var t string
			json.Unmarshal(v, &t)
			sub.Kind = forms.Kind(t)
		case "attachment":
			var a jsonAttachment
			if err := json.Unmarshal(v, &a); err != nil || a.Base64 == "" || a.Filename == "" {
				continue
			}
			content, err := base64.StdEncoding.DecodeString(a.Base64)
			if err != nil {
				return nil, fmt.Errorf("%w: attachment: %v", ErrBadRequest, err)
			}
			sub.Attachment = &Attachment{Filename: a.Filename, Content: content}
		default:
			var s string
			if json.Unmarshal(v, &s) == nil {
				sub.Fields[k] = s
			}
		}
	}
	return sub, nil
}

func decodeMultipart(r *http.Request) (*Submission, error) {
	if err := r.ParseMultipartForm(MaxBodyBytes); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	sub := &Submission{Kind: forms.KindArticle, Fields: make(map[string]string)}
	for k, vs := range r.MultipartForm.Value {
		if len(vs) == 0 {
			continue
		}
		if k == "type" {
			sub.Kind = forms.Kind(vs[0])
			continue
		}
		sub.Fields[k] = vs[0]
	}
	for _, name := range fileParts {
		f, hdr, err := r.FormFile(name)
		if err != nil {
			continue
		}
		content, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: reading %s: %v", ErrBadRequest, name, err)
		}
		if len(content) > 0 {
			sub.Attachment = &Attachment{Filename: hdr.Filename, Content: content}
			break
		}
	}
	return sub, nil
}
