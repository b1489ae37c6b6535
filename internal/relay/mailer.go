package relay

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"net/textproto"

	"github.com/wneessen/go-mail"
)

var (
	// ErrMailAuth marks a mail server that rejected the credentials.
	ErrMailAuth = errors.New("mail authentication failed")
	// ErrMailConnection marks a mail server that could not be reached.
	ErrMailConnection = errors.New("mail connection failed")
)

// Mailer delivers a message.
type Mailer interface {
	Send(ctx context.Context, msg *Message) error
}

// SMTPConfig configures SMTPMailer.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	// TLS selects mandatory STARTTLS or implicit TLS on port 465.
	TLS bool
}

// SMTPMailer sends mail through an SMTP server with go-mail.
type SMTPMailer struct {
	cfg SMTPConfig
}

// NewSMTPMailer creates a mailer for cfg. No connection is made until Send.
func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) client() (*mail.Client, error) {
	opts := []mail.Option{mail.WithPort(m.cfg.Port)}
	if m.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}
	switch {
	case m.cfg.TLS && m.cfg.Port == 465:
		opts = append(opts, mail.WithSSLPort(false))
	case m.cfg.TLS:
		opts = append(opts, mail.WithTLSPortPolicy(mail.TLSMandatory))
	default:
		opts = append(opts, mail.WithTLSPortPolicy(mail.NoTLS))
	}
	return mail.NewClient(m.cfg.Host, opts...)
}

// Send builds and delivers msg in one SMTP session.
func (m *SMTPMailer) Send(ctx context.Context, msg *Message) error {
	out, err := toMsg(msg)
	if err != nil {
		return err
	}
	c, err := m.client()
	if err != nil {
		return fmt.Errorf("creating mail client: %w", err)
	}
	if err := c.DialAndSendWithContext(ctx, out); err != nil {
		return classify(err)
	}
	return nil
}

func toMsg(msg *Message) (*mail.Msg, error) {
	out := mail.NewMsg()
	if err := out.FromFormat(msg.FromName, msg.From); err != nil {
		return nil, fmt.Errorf("setting from: %w", err)
	}
	if err := out.To(msg.To); err != nil {
		return nil, fmt.Errorf("setting to: %w", err)
	}
	if msg.ReplyTo != "" {
		if err := out.ReplyTo(msg.ReplyTo); err != nil {
			return nil, fmt.Errorf("setting reply-to: %w", err)
		}
	}
	out.Subject(msg.Subject)
	out.SetBodyString(mail.TypeTextHTML, msg.HTML)
	for _, a := range msg.Attachments {
		if err := out.AttachReader(a.Filename, bytes.NewReader(a.Content),
			mail.WithFileContentType(mail.ContentType(AttachmentType))); err != nil {
			return nil, fmt.Errorf("attaching %s: %w", a.Filename, err)
		}
	}
	return out, nil
}

// classify tags err with ErrMailAuth or ErrMailConnection when it matches.
func classify(err error) error {
	var tpErr *textproto.Error
	if errors.As(err, &tpErr) && (tpErr.Code == 530 || tpErr.Code == 534 || tpErr.Code == 535) {
		return fmt.Errorf("%w: %w", ErrMailAuth, err)
	}
	var opErr *net.OpError
	var dnsErr *net.DNSError
	if errors.As(err, &opErr) || errors.As(err, &dnsErr) {
		return fmt.Errorf("%w: %w", ErrMailConnection, err)
	}
	return fmt.Errorf("sending mail: %w", err)
}

// FailureMessage is the error text returned to the site for a send error.
func FailureMessage(err error) string {
	switch {
	case errors.Is(err, ErrMailAuth):
		return "❌ Gmail authentication failed. Please check email settings."
	case errors.Is(err, ErrMailConnection):
		return "❌ Connection failed. Please try again."
	default:
		return "Failed to send email"
	}
}
