package site

import (
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/bytetobeacon/beacon/internal/forms"
	"github.com/bytetobeacon/beacon/internal/router"
	"github.com/bytetobeacon/beacon/internal/search"
)

// maxUploadBytes caps the article form body, attachment included.
const maxUploadBytes = 10 << 20

func (s *Site) handlePage(w http.ResponseWriter, r *http.Request) {
	ctl := s.controller()
	defer ctl.Close()

	// Only article pages wait for the load; the rest render at once.
	st, err := ctl.Start(r.Context(), router.ParseLocation(r.URL.Path))
	if err != nil {
		return
	}
	if st.Route.Page == router.PageHome {
		q := r.URL.Query()
		st = ctl.SetSearch(search.State{Query: q.Get("q"), Category: q.Get("category")})
	}
	s.writePage(w, st, http.StatusOK)
}

func (s *Site) handleContact(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	s.submitForm(w, r, forms.KindContact, router.PageContact, nil)
}

func (s *Site) handleSubmitArticle(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	err := r.ParseMultipartForm(maxUploadBytes)
	if errors.Is(err, http.ErrNotMultipart) {
		err = r.ParseForm()
	}
	if err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	attachment, err := postedFile(r, "articleFile")
	if err != nil {
		http.Error(w, "Invalid attachment", http.StatusBadRequest)
		return
	}
	s.submitForm(w, r, forms.KindArticle, router.PageHome, attachment)
}

// submitForm runs one form submission through a fresh controller and
// renders the page the form lives on, notifications included.
func (s *Site) submitForm(w http.ResponseWriter, r *http.Request, kind forms.Kind, page router.Page, attachment *forms.Attachment) {
	ctx := r.Context()
	ctl := s.controller()
	defer ctl.Close()

	if _, err := ctl.Start(ctx, router.PageLocation(page)); err != nil {
		return
	}
	ctl.SetFields(kind, postedFields(r, kind))
	if attachment != nil {
		ctl.Attach(attachment)
	}

	st, err := ctl.Submit(ctx, kind)
	if err != nil {
		s.logger.Info("form submission rejected", zap.String("kind", string(kind)), zap.Error(err))
	}
	s.writePage(w, st, submitStatus(err))
}

func postedFields(r *http.Request, kind forms.Kind) forms.Fields {
	values := make(forms.Fields)
	for _, name := range forms.RequiredFields(kind) {
		values[name] = r.PostFormValue(name)
	}
	return values
}

// postedFile reads an optional file part. A missing part is not an error.
func postedFile(r *http.Request, name string) (*forms.Attachment, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	f, hdr, err := r.FormFile(name)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	return forms.NewAttachment(hdr.Filename, data), nil
}

func submitStatus(err error) int {
	var verr *forms.ValidationError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, forms.ErrSubmissionTransport):
		return http.StatusBadGateway
	case errors.Is(err, forms.ErrBusy):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
