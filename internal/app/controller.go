package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bytetobeacon/beacon/internal/articles"
	"github.com/bytetobeacon/beacon/internal/content"
	"github.com/bytetobeacon/beacon/internal/forms"
	"github.com/bytetobeacon/beacon/internal/router"
	"github.com/bytetobeacon/beacon/internal/search"
)

// Options tunes a Controller.
type Options struct {
	Debounce time.Duration
	Mode     router.Mode
	Logger   *zap.Logger
	// Now is the clock used for notification expiry.
	Now func() time.Time
}

// Controller serializes every state change. Navigation is serialized on its
// own lock so that waiting for articles does not hold up search input.
type Controller struct {
	navMu  sync.Mutex
	router *router.Router

	mu          sync.Mutex
	route       router.Route
	input       string
	search      search.State
	notes       []Notification
	loadNotice  bool
	subscribers map[int]func(State)
	nextSub     int
	// inputSeq numbers typed input. A debounced query applies only while
	// its number is current.
	inputSeq uint64

	pending   *articles.Pending
	site      *content.Site
	forms     map[forms.Kind]*forms.Form
	debouncer *search.Debouncer[typedQuery]
	log       *zap.Logger
	now       func() time.Time
}

// New creates a Controller over a pending article load.
func New(pending *articles.Pending, site *content.Site, submitter forms.Submitter, opts Options) *Controller {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	c := &Controller{
		router:      router.New(pending, opts.Mode),
		search:      search.State{}.Normalize(),
		subscribers: make(map[int]func(State)),
		pending:     pending,
		site:        site,
		forms: map[forms.Kind]*forms.Form{
			forms.KindArticle: forms.NewForm(forms.KindArticle, submitter),
			forms.KindContact: forms.NewForm(forms.KindContact, submitter),
		},
		log: opts.Logger,
		now: opts.Now,
	}
	c.route = c.router.Current()
	c.debouncer = search.NewDebouncer(opts.Debounce, c.applyQuery)
	return c
}

// Start resolves the initial location.
func (c *Controller) Start(ctx context.Context, loc router.Location) (State, error) {
	return c.navigate(ctx, func(r *router.Router) (router.Route, error) {
		return r.Start(ctx, loc)
	})
}

// Navigate moves to a static page.
func (c *Controller) Navigate(ctx context.Context, page router.Page) (State, error) {
	return c.navigate(ctx, func(r *router.Router) (router.Route, error) {
		return r.Navigate(ctx, page)
	})
}

// Open follows a link to loc.
func (c *Controller) Open(ctx context.Context, loc router.Location) (State, error) {
	return c.navigate(ctx, func(r *router.Router) (router.Route, error) {
		return r.Open(ctx, loc)
	})
}

// SelectArticle shows an article by id or slug. An unknown reference leaves
// the page unchanged and raises an error notification.
func (c *Controller) SelectArticle(ctx context.Context, ref string) (State, error) {
	st, err := c.navigate(ctx, func(r *router.Router) (router.Route, error) {
		return r.SelectArticle(ctx, ref)
	})
	if errors.Is(err, router.ErrNotFound) {
		c.Notify(NotifyError, "Article not found.")
		return c.State(), err
	}
	return st, err
}

// Back restores the previous history entry.
func (c *Controller) Back(ctx context.Context) (State, error) {
	return c.navigate(ctx, func(r *router.Router) (router.Route, error) {
		route, _, err := r.Back(ctx)
		return route, err
	})
}

// Forward restores the next history entry.
func (c *Controller) Forward(ctx context.Context) (State, error) {
	return c.navigate(ctx, func(r *router.Router) (router.Route, error) {
		route, _, err := r.Forward(ctx)
		return route, err
	})
}

func (c *Controller) navigate(ctx context.Context, step func(*router.Router) (router.Route, error)) (State, error) {
	c.navMu.Lock()
	route, err := step(c.router)
	loadErr := c.router.LoadErr()
	c.navMu.Unlock()
	if loadErr == nil && c.pending != nil {
		loadErr = c.pending.Err()
	}

	c.mu.Lock()
	c.route = route
	c.mu.Unlock()

	if err != nil {
		if ctx.Err() == nil {
			c.log.Debug("navigation failed", zap.Error(err))
		}
		return c.State(), err
	}
	if loadErr != nil {
		c.noticeLoadFailure(loadErr)
	}
	if route.Err != nil {
		c.log.Debug("route not found", zap.String("location", route.Location.String()), zap.Error(route.Err))
	}
	return c.State(), nil
}

// typedQuery is a query waiting in the debouncer.
type typedQuery struct {
	query string
	seq   uint64
}

// SetQuery records typed search input; the query applies after the
// debounce delay, and only the last of rapid calls applies.
func (c *Controller) SetQuery(q string) {
	c.mu.Lock()
	c.input = q
	c.inputSeq++
	seq := c.inputSeq
	c.mu.Unlock()
	c.debouncer.Push(typedQuery{query: q, seq: seq})
}

// SubmitQuery applies q at once, as pressing Enter does.
func (c *Controller) SubmitQuery(q string) State {
	c.SetQuery(q)
	c.debouncer.Flush()
	return c.State()
}

// ClearSearch empties the query and drops any pending input.
func (c *Controller) ClearSearch() State {
	c.debouncer.Stop()
	c.mu.Lock()
	c.inputSeq++
	c.input = ""
	c.search.Query = ""
	c.mu.Unlock()
	c.publish()
	return c.State()
}

// SetCategory selects a category filter; "" and "all" clear it.
func (c *Controller) SetCategory(category string) State {
	c.mu.Lock()
	c.search.Category = category
	c.search = c.search.Normalize()
	c.mu.Unlock()
	c.publish()
	return c.State()
}

// SetSearch applies a query and category together without debouncing.
func (c *Controller) SetSearch(s search.State) State {
	c.debouncer.Stop()
	c.mu.Lock()
	c.inputSeq++
	c.search = s.Normalize()
	c.input = c.search.Query
	c.mu.Unlock()
	c.publish()
	return c.State()
}

// applyQuery runs a debounced query unless newer input, a clear or a
// direct search has superseded it.
func (c *Controller) applyQuery(tq typedQuery) {
	c.mu.Lock()
	if tq.seq != c.inputSeq {
		c.mu.Unlock()
		return
	}
	c.search.Query = tq.query
	c.search = c.search.Normalize()
	c.mu.Unlock()
	c.log.Debug("search applied", zap.String("query", tq.query))
	c.publish()
}

// SetField records a form field value.
func (c *Controller) SetField(kind forms.Kind, field, value string) {
	if f, ok := c.forms[kind]; ok {
		f.Set(field, value)
	}
}

// SetFields replaces a form's values.
func (c *Controller) SetFields(kind forms.Kind, values forms.Fields) {
	if f, ok := c.forms[kind]; ok {
		f.SetValues(values)
	}
}

// Attach sets the article form's attachment.
func (c *Controller) Attach(a *forms.Attachment) {
	c.forms[forms.KindArticle].Attach(a)
}

// Submit sends a form and turns the outcome into a notification.
func (c *Controller) Submit(ctx context.Context, kind forms.Kind) (State, error) {
	f, ok := c.forms[kind]
	if !ok {
		return c.State(), forms.ErrUnknownKind
	}
	msg, err := f.Submit(ctx)

	var verr *forms.ValidationError
	var serr *forms.SubmissionError
	switch {
	case err == nil:
		c.Notify(NotifySuccess, msg)
	case errors.As(err, &verr):
		c.Notify(NotifyError, verr.Message())
	case errors.As(err, &serr):
		c.log.Warn("form submission failed", zap.String("kind", string(kind)), zap.Error(err))
		c.Notify(NotifyError, serr.UserMessage())
	case errors.Is(err, forms.ErrBusy):
	default:
		c.Notify(NotifyError, "Failed to send: "+err.Error())
	}
	return c.State(), err
}

// Notify adds a notification and returns it.
func (c *Controller) Notify(kind NotificationKind, text string) Notification {
	n := Notification{ID: uuid.NewString(), Kind: kind, Text: text, Expires: c.now().Add(NotificationTTL)}
	c.mu.Lock()
	c.notes = append(c.notes, n)
	c.mu.Unlock()
	return n
}

// Dismiss removes a notification and reports whether it was present.
func (c *Controller) Dismiss(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, n := range c.notes {
		if n.ID == id {
			c.notes = append(c.notes[:i], c.notes[i+1:]...)
			return true
		}
	}
	return false
}

func (c *Controller) noticeLoadFailure(err error) {
	c.mu.Lock()
	first := !c.loadNotice
	c.loadNotice = true
	c.mu.Unlock()
	if first {
		c.log.Error("article load failed", zap.Error(err))
		c.Notify(NotifyError, LoadFailedMessage)
	}
}

// Subscribe registers fn to receive the state after every search change.
// The returned func unregisters it.
func (c *Controller) Subscribe(fn func(State)) func() {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subscribers[id] = fn
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		delete(c.subscribers, id)
		c.mu.Unlock()
	}
}

func (c *Controller) publish() {
	c.mu.Lock()
	subs := make([]func(State), 0, len(c.subscribers))
	for _, fn := range c.subscribers {
		subs = append(subs, fn)
	}
	c.mu.Unlock()
	if len(subs) == 0 {
		return
	}
	st := c.State()
	for _, fn := range subs {
		fn(st)
	}
}

// State builds a snapshot of the current state. Expired notifications are
// pruned.
func (c *Controller) State() State {
	var store *articles.Store
	var loadErr error
	loading := true
	if c.pending != nil && c.pending.Loaded() {
		loading = false
		store, loadErr = c.pending.Wait(context.Background())
	}
	if store == nil {
		store = articles.Empty()
	}

	c.mu.Lock()
	now := c.now()
	live := c.notes[:0]
	for _, n := range c.notes {
		if now.Before(n.Expires) {
			live = append(live, n)
		}
	}
	c.notes = live
	st := State{
		Route:         c.route,
		Input:         c.input,
		Search:        c.search,
		Loading:       loading,
		LoadErr:       loadErr,
		Site:          c.site,
		Notifications: append([]Notification(nil), live...),
	}
	c.mu.Unlock()

	st.Articles = store.All()
	st.Results = st.Search.Apply(st.Articles)
	st.Categories = search.Categories(st.Articles)
	st.ArticleForm = c.forms[forms.KindArticle].Snapshot()
	st.ContactForm = c.forms[forms.KindContact].Snapshot()
	return st
}

// Close stops any pending debounced search.
func (c *Controller) Close() {
	c.debouncer.Stop()
}
