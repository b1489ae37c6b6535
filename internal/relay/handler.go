package relay

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/bytetobeacon/beacon/internal/audit"
	"github.com/bytetobeacon/beacon/internal/notifications"
)

// Paths the relay answers on.
const (
	Path       = "/api/send-email"
	LegacyPath = "/.netlify/functions/send-email"
)

// Config configures a Handler.
type Config struct {
	Addresses Addresses
	// AllowedOrigins are echoed in Access-Control-Allow-Origin. Empty or
	// containing "*" allows every origin.
	AllowedOrigins []string
}

// Notifier receives an event for every send attempt.
type Notifier interface {
	Dispatch(ctx context.Context, e notifications.Event) error
}

// Handler serves the relay endpoint.
type Handler struct {
	cfg      Config
	mailer   Mailer
	log      *audit.Store
	notifier Notifier
	logger   *zap.Logger
}

// NewHandler creates a relay handler. log may be nil to skip the
// submission log.
func NewHandler(cfg Config, mailer Mailer, log *audit.Store, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{cfg: cfg, mailer: mailer, log: log, logger: logger}
}

// WithNotifier makes h report every send attempt to n.
func (h *Handler) WithNotifier(n Notifier) *Handler {
	h.notifier = n
	return h
}

// RegisterRoutes mounts the relay on both of its paths.
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Handle(Path, h)
	r.Handle(LegacyPath, h)
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.setCORS(w, r)

	if r.Method == http.MethodOptions {
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
		return
	}
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody("Method not allowed"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	sub, err := Decode(r)
	if err != nil {
		h.logger.Debug("rejecting relay request", zap.Error(err))
		writeJSON(w, http.StatusBadRequest, errorBody("Invalid request body"))
		return
	}
	if err := sub.Validate(); err != nil {
		msg := "Missing required fields"
		if errors.Is(err, ErrInvalidType) {
			msg = "Invalid submission type"
		}
		writeJSON(w, http.StatusBadRequest, errorBody(msg))
		return
	}

	msg, err := BuildMessage(sub, h.cfg.Addresses)
	if err != nil {
		h.logger.Error("building email", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorBody("Failed to send email"))
		return
	}

	sendErr := h.mailer.Send(r.Context(), msg)
	h.record(r, sub, msg, sendErr)
	if sendErr != nil {
		h.logger.Error("email sending failed",
			zap.String("type", string(sub.Kind)),
			zap.Error(sendErr))
		writeJSON(w, http.StatusInternalServerError, errorBody(FailureMessage(sendErr)))
		return
	}

	h.logger.Info("email sent",
		zap.String("type", string(sub.Kind)),
		zap.Bool("attachment", len(msg.Attachments) > 0))
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": successMessages[sub.Kind],
	})
}

// record logs and announces a send attempt. Both outlive a client that
// disconnects after the send.
func (h *Handler) record(r *http.Request, sub *Submission, msg *Message, sendErr error) {
	ctx := context.WithoutCancel(r.Context())
	entry := audit.Entry{
		Type:       string(sub.Kind),
		ReplyTo:    msg.ReplyTo,
		Subject:    msg.Subject,
		Status:     audit.StatusSent,
		RemoteAddr: r.RemoteAddr,
	}
	if sub.Attachment != nil {
		entry.Attachment = sub.Attachment.Filename
	}
	if sendErr != nil {
		entry.Status = audit.StatusFailed
		entry.Error = sendErr.Error()
	}
	if h.log != nil {
		id, err := h.log.Log(ctx, entry)
		if err != nil {
			h.logger.Warn("recording submission", zap.Error(err))
		}
		entry.ID = id
	}
	if h.notifier != nil {
		if err := h.notifier.Dispatch(ctx, event(entry)); err != nil {
			h.logger.Warn("notifying subscribers", zap.Error(err))
		}
	}
}

func event(e audit.Entry) notifications.Event {
	typ := notifications.EventSubmissionSent
	if e.Status == audit.StatusFailed {
		typ = notifications.EventSubmissionFailed
	}
	return notifications.Event{
		ID:             e.ID,
		Type:           typ,
		SubmissionType: e.Type,
		Subject:        e.Subject,
		ReplyTo:        e.ReplyTo,
		Attachment:     e.Attachment,
		Error:          e.Error,
	}
}

func (h *Handler) setCORS(w http.ResponseWriter, r *http.Request) {
	origin := "*"
	if len(h.cfg.AllowedOrigins) > 0 && !contains(h.cfg.AllowedOrigins, "*") {
		origin = h.cfg.AllowedOrigins[0]
		if reqOrigin := r.Header.Get("Origin"); contains(h.cfg.AllowedOrigins, reqOrigin) {
			origin = reqOrigin
		}
		w.Header().Add("Vary", "Origin")
	}
	w.Header().Set("Access-Control-Allow-Origin", origin)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

func errorBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
