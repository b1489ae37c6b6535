package render

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/bytetobeacon/beacon/internal/forms"
)

type field struct {
	name, id, label, kind string
	rows                  string
}

var contactFields = []field{
	{name: "name", id: "contactName", label: "Name *", kind: "text"},
	{name: "email", id: "contactEmail", label: "Email *", kind: "email"},
	{name: "subject", id: "contactSubject", label: "Subject *", kind: "text"},
	{name: "message", id: "contactMessage", label: "Message *", rows: "6"},
}

var articleFields = []field{
	{name: "authorName", id: "authorName", label: "Your Name *", kind: "text"},
	{name: "authorEmail", id: "authorEmail", label: "Email *", kind: "email"},
	{name: "articleTitle", id: "articleTitle", label: "Article Title *", kind: "text"},
	{name: "articleContent", id: "articleContent", label: "Article Content *", rows: "12"},
}

// ContactForm renders the contact form with its current values.
func ContactForm(s forms.Snapshot) *html.Node {
	f := formShell("contactForm", "contact-form", "/contact", s, contactFields)
	return f
}

// ArticleForm renders the article submission form with its current values.
func ArticleForm(s forms.Snapshot) *html.Node {
	f := formShell("articleForm", "article-form", "/submit", s, articleFields)
	setAttr(f, "enctype", "multipart/form-data")
	file := elem(atom.Div, "form-group",
		withAttrs(textElem(atom.Label, "", "Attach PDF (optional)"), "for", "articleFile"),
		withAttrs(elem(atom.Input, ""), "type", "file", "id", "articleFile", "name", "articleFile", "accept", ".pdf,application/pdf"),
	)
	f.InsertBefore(file, f.LastChild)
	return f
}

// ArticleSubmission is the home page section wrapping the article form.
func ArticleSubmission(s forms.Snapshot, guidelinesHTML string) *html.Node {
	sec := withAttrs(elem(atom.Section, "submit-section", textElem(atom.H2, "", "Submit an Article")), "id", "submit")
	if guidelinesHTML != "" {
		sec.AppendChild(elem(atom.Div, "guidelines", fragment(guidelinesHTML)...))
	}
	sec.AppendChild(ArticleForm(s))
	return sec
}

func formShell(id, class, action string, s forms.Snapshot, fields []field) *html.Node {
	f := withAttrs(elem(atom.Form, class), "id", id, "method", "post", "action", action, "data-phase", string(s.Phase))
	if msg := ErrorMessage(s.Err); msg != "" {
		f.AppendChild(withAttrs(textElem(atom.P, "form-error", msg), "role", "alert"))
	}
	for _, fd := range fields {
		f.AppendChild(formGroup(fd, s.Value(fd.name)))
	}
	btn := withAttrs(textElem(atom.Button, "btn btn-primary", s.Label), "type", "submit")
	if s.Busy() {
		setAttr(btn, "disabled", "")
	}
	f.AppendChild(btn)
	return f
}

func formGroup(fd field, value string) *html.Node {
	var input *html.Node
	if fd.rows != "" {
		input = withAttrs(textElem(atom.Textarea, "", value), "rows", fd.rows)
	} else {
		input = withAttrs(elem(atom.Input, ""), "type", fd.kind, "value", value)
	}
	withAttrs(input, "id", fd.id, "name", fd.name, "required", "")
	return elem(atom.Div, "form-group",
		withAttrs(textElem(atom.Label, "", fd.label), "for", fd.id),
		input,
	)
}
