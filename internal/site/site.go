// Package site is the HTTP front end. Every request gets its own
// app.Controller over the shared article load; pages are rendered on the
// server and live search streams over a websocket.
package site

import (
	"context"
	"embed"
	"errors"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/bytetobeacon/beacon/internal/app"
	"github.com/bytetobeacon/beacon/internal/articles"
	"github.com/bytetobeacon/beacon/internal/content"
	"github.com/bytetobeacon/beacon/internal/forms"
	"github.com/bytetobeacon/beacon/internal/render"
	"github.com/bytetobeacon/beacon/internal/router"
)

//go:embed static
var staticFiles embed.FS

// Config tunes the front end.
type Config struct {
	// Debounce is the live search delay.
	Debounce time.Duration
	Mode     router.Mode
	Assets   render.Assets
}

// Site serves the blog pages.
type Site struct {
	cfg       Config
	pending   *articles.Pending
	content   *content.Site
	submitter forms.Submitter
	logger    *zap.Logger
}

// New creates a Site. submitter receives form submissions, usually a
// forms.Client pointed at the email relay.
func New(cfg Config, pending *articles.Pending, site *content.Site, submitter forms.Submitter, logger *zap.Logger) *Site {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Assets == (render.Assets{}) {
		cfg.Assets = render.DefaultAssets
	}
	return &Site{
		cfg:       cfg,
		pending:   pending,
		content:   site,
		submitter: submitter,
		logger:    logger,
	}
}

// RegisterRoutes mounts the site on r. Pages use a catch-all so unknown
// paths render the not-found page.
func (s *Site) RegisterRoutes(r chi.Router) {
	static, _ := fs.Sub(staticFiles, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	r.Get("/data/articles.json", s.handleDocument)
	r.Get("/api/search", s.handleSearch)
	r.Get("/api/articles/{ref}", s.handleArticle)
	r.Get("/ws/search", s.handleLiveSearch)

	r.Post("/contact", s.handleContact)
	r.Post("/submit", s.handleSubmitArticle)
	r.Get("/*", s.handlePage)
}

func (s *Site) controller() *app.Controller {
	return app.New(s.pending, s.content, s.submitter, app.Options{
		Debounce: s.cfg.Debounce,
		Mode:     s.cfg.Mode,
		Logger:   s.logger,
	})
}

// errCanceled is returned by waitLoaded when the request went away before
// the article load finished.
var errCanceled = errors.New("request canceled while loading articles")

// waitLoaded blocks until the article load completes. A failed load is not
// an error here; the controller reports it.
func (s *Site) waitLoaded(ctx context.Context) (*articles.Store, error) {
	store, err := s.pending.Wait(ctx)
	if ctx.Err() != nil {
		return nil, errCanceled
	}
	return store, err
}

func (s *Site) writePage(w http.ResponseWriter, st app.State, status int) {
	if st.Route.Page == router.PageNotFound {
		status = http.StatusNotFound
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := render.Render(w, render.Document(st, s.cfg.Assets)); err != nil {
		s.logger.Debug("writing page", zap.Error(err))
	}
}
