package relay

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/bytetobeacon/beacon/internal/forms"
)

// AttachmentType is the content type of article attachments.
const AttachmentType = "application/pdf"

// Message is an outbound email.
type Message struct {
	FromName    string
	From        string
	To          string
	ReplyTo     string
	Subject     string
	HTML        string
	Attachments []Attachment
}

// Addresses configures the envelope of outbound mail.
type Addresses struct {
	From string
	To   string
}

var senderNames = map[forms.Kind]string{
	forms.KindArticle: "ByteToBeacon Submissions",
	forms.KindContact: "ByteToBeacon Contact",
}

var successMessages = map[forms.Kind]string{
	forms.KindArticle: "✅ Article sent successfully! We'll review your submission.",
	forms.KindContact: "✅ Message sent successfully! We'll get back to you soon.",
}

const emailLayout = `{{define "layout"}}<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <div style="background: #00ab6c; color: white; padding: 20px; text-align: center;">
    <h1 style="margin: 0; font-size: 24px;">{{.Icon}} ByteToBeacon</h1>
    <p style="margin: 5px 0 0 0; opacity: 0.9;">{{.Banner}}</p>
  </div>
  <div style="padding: 30px;">
    <div style="background: #f8f9fa; padding: 20px; border-radius: 8px; margin-bottom: 20px; border-left: 4px solid #00ab6c;">
      <h2 style="margin-top: 0; color: #333;">{{.Heading}}</h2>
      <p style="margin: 10px 0 5px 0; color: #666;"><strong>👤 {{.NameLabel}}:</strong> {{.Name}}</p>
      <p style="margin: 5px 0; color: #666;"><strong>📧 Email:</strong> <a href="mailto:{{.Email}}" style="color: #00ab6c;">{{.Email}}</a></p>
    </div>
    <div style="margin: 20px 0;">
      <h3 style="color: #333; border-bottom: 2px solid #00ab6c; padding-bottom: 10px;">{{.BodyLabel}}</h3>
      <div style="background: #ffffff; border: 2px solid #e9ecef; padding: 20px; border-radius: 8px; white-space: pre-wrap; line-height: 1.6; color: #333;">{{.Body}}</div>
    </div>
    {{- if .Attachment}}
    <div style="background: #e7f3ff; border: 1px solid #b3d9ff; padding: 15px; border-radius: 8px; margin: 20px 0;">
      <p style="margin: 0; color: #0066cc;"><strong>📎 PDF Attachment:</strong> {{.Attachment}}</p>
    </div>
    {{- end}}
    <div style="background: #f1f1f1; padding: 15px; border-radius: 8px; margin-top: 30px; text-align: center;">
      <p style="margin: 0; color: #666; font-size: 14px;">
        💡 <em>Reply to respond directly to {{.Name}}</em><br>
        🚀 <em>Powered by ByteToBeacon</em>
      </p>
    </div>
  </div>
</div>{{end}}`

var emailTmpl = template.Must(template.New("email").Parse(emailLayout))

type emailData struct {
	Icon, Banner    string
	Heading         string
	NameLabel, Name string
	Email           string
	BodyLabel, Body string
	Attachment      string
}

// BuildMessage renders the email for a validated submission.
func BuildMessage(sub *Submission, addr Addresses) (*Message, error) {
	var data emailData
	var subject string
	switch sub.Kind {
	case forms.KindArticle:
		data = emailData{
			Icon:      "📝",
			Banner:    "New Article Submission",
			Heading:   sub.Field("articleTitle"),
			NameLabel: "Author",
			Name:      sub.Field("authorName"),
			Email:     sub.Field("authorEmail"),
			BodyLabel: "📖 Article Content",
			Body:      sub.Field("articleContent"),
		}
		if sub.Attachment != nil {
			data.Attachment = sub.Attachment.Filename
		}
		subject = "[ByteToBeacon] New Article: " + sub.Field("articleTitle")
	case forms.KindContact:
		data = emailData{
			Icon:      "📧",
			Banner:    "Contact Form Message",
			Heading:   sub.Field("subject"),
			NameLabel: "Name",
			Name:      sub.Field("name"),
			Email:     sub.Field("email"),
			BodyLabel: "💬 Message",
			Body:      sub.Field("message"),
		}
		subject = "[ByteToBeacon Contact] " + sub.Field("subject")
	default:
		return nil, ErrInvalidType
	}

	var buf bytes.Buffer
	if err := emailTmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return nil, fmt.Errorf("rendering email: %w", err)
	}

	msg := &Message{
		FromName: senderNames[sub.Kind],
		From:     addr.From,
		To:       addr.To,
		ReplyTo:  sub.ReplyTo(),
		Subject:  subject,
		HTML:     buf.String(),
	}
	if sub.Kind == forms.KindArticle && sub.Attachment != nil {
		msg.Attachments = append(msg.Attachments, *sub.Attachment)
	}
	return msg, nil
}
