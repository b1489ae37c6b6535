package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/bytetobeacon/beacon/internal/articles"
	"github.com/bytetobeacon/beacon/internal/audit"
	"github.com/bytetobeacon/beacon/internal/config"
	"github.com/bytetobeacon/beacon/internal/db"
	"github.com/bytetobeacon/beacon/internal/notifications"
	"github.com/bytetobeacon/beacon/internal/relay"
	"github.com/bytetobeacon/beacon/internal/server"
)

// loadConfig loads the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `beacon init` to create a config file", err)
	}
	return cfg, nil
}

// loadArticles loads the configured source synchronously, or source when
// it is non-empty.
func loadArticles(ctx context.Context, cfg *config.Config, source string) (*articles.Store, error) {
	if source == "" {
		source = cfg.Articles.Source
	}
	return articles.NewLoader(source).Load(ctx)
}

// openSubmissionLog opens the relay's sqlite log. An empty path disables
// the log.
func openSubmissionLog(path string) (*db.DB, *audit.Store, error) {
	if path == "" {
		return nil, nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating data dir: %w", err)
	}
	database, err := db.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}
	return database, audit.NewStore(database), nil
}

// newRelayServer builds the relay HTTP server. The returned func closes the
// submission log.
func newRelayServer(cfg *config.Config) (*server.Server, func(), error) {
	rc := cfg.Relay
	database, store, err := openSubmissionLog(rc.DBPath)
	if err != nil {
		return nil, nil, err
	}
	closeLog := func() {
		if database != nil {
			database.Close()
		}
	}

	origins := rc.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	srv := server.New("relay", server.Config{
		Host:           rc.Host,
		Port:           rc.Port,
		AllowedOrigins: origins,
	}, logger)

	mailer := relay.NewSMTPMailer(relay.SMTPConfig{
		Host:     rc.SMTP.Host,
		Port:     rc.SMTP.Port,
		Username: rc.SMTP.Username,
		Password: rc.SMTP.Password,
		TLS:      rc.SMTP.TLS,
	})
	h := relay.NewHandler(relay.Config{
		Addresses:      relay.Addresses{From: rc.From, To: rc.To},
		AllowedOrigins: rc.AllowedOrigins,
	}, mailer, store, logger)
	if len(rc.Webhooks) > 0 {
		h.WithNotifier(notifications.NewDispatcher(rc.Webhooks, logger))
	}
	relay.RegisterRoutes(srv.Router(), h)
	if store != nil && rc.AdminPassword != "" {
		srv.Router().Group(func(r chi.Router) {
			r.Use(middleware.BasicAuth("beacon submissions", map[string]string{
				adminUser: rc.AdminPassword,
			}))
			audit.RegisterRoutes(r, store)
		})
	}
	return srv, closeLog, nil
}

// adminUser is the basic auth user for the submission log API.
const adminUser = "admin"

func truncate(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
