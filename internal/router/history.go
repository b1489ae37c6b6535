package router

import (
	"context"
	"fmt"

	"github.com/bytetobeacon/beacon/internal/articles"
)

// Mode selects how unknown paths resolve.
type Mode int

const (
	// ModeStrict resolves unknown paths to not-found.
	ModeStrict Mode = iota
	// ModeLegacy resolves unknown paths to home.
	ModeLegacy
)

// Router holds the current route and a history stack of locations. It is not
// safe for concurrent use; the application controller serializes access.
type Router struct {
	pending *articles.Pending
	mode    Mode
	history []Location
	index   int
	current Route
	loadErr error
}

// New creates a router reading articles from pending. The router starts on
// home with an empty history until Start is called.
func New(pending *articles.Pending, mode Mode) *Router {
	home := PageLocation(PageHome)
	return &Router{
		pending: pending,
		mode:    mode,
		history: []Location{home},
		current: Route{Page: PageHome, Location: home},
	}
}

// Start resolves the initial location, replacing the history. When the
// location names an article it waits for the store to finish loading; other
// pages resolve immediately.
func (r *Router) Start(ctx context.Context, loc Location) (Route, error) {
	route, err := r.resolve(ctx, loc)
	if err != nil {
		return r.current, err
	}
	r.history = []Location{loc}
	r.index = 0
	r.current = route
	return route, nil
}

// Navigate moves to a static page and pushes a history entry. Navigating to
// the current location re-resolves without pushing.
func (r *Router) Navigate(ctx context.Context, page Page) (Route, error) {
	return r.Open(ctx, PageLocation(page))
}

// Open moves to an arbitrary location, as a followed link does.
func (r *Router) Open(ctx context.Context, loc Location) (Route, error) {
	route, err := r.resolve(ctx, loc)
	if err != nil {
		return r.current, err
	}
	if loc != r.history[r.index] {
		r.push(loc)
	}
	r.current = route
	return route, nil
}

// SelectArticle shows an article by id or slug and pushes its canonical
// location. An unknown reference leaves the route unchanged.
func (r *Router) SelectArticle(ctx context.Context, ref string) (Route, error) {
	store, err := r.wait(ctx)
	if err != nil {
		return r.current, err
	}
	if store == nil {
		return r.current, fmt.Errorf("%w: article %q: %w", ErrNotFound, ref, r.loadErr)
	}
	a, err := store.Resolve(ref)
	if err != nil {
		return r.current, fmt.Errorf("%w: article %q: %w", ErrNotFound, ref, err)
	}
	loc := ArticleLocation(a.Slug)
	if loc != r.history[r.index] {
		r.push(loc)
	}
	r.current = Route{Page: PageArticle, Location: loc, Article: &a}
	return r.current, nil
}

// Back restores the previous history entry. ok is false at the oldest entry.
func (r *Router) Back(ctx context.Context) (route Route, ok bool, err error) {
	if r.index == 0 {
		return r.current, false, nil
	}
	return r.restore(ctx, r.index-1)
}

// Forward restores the next history entry. ok is false at the newest entry.
func (r *Router) Forward(ctx context.Context) (route Route, ok bool, err error) {
	if r.index >= len(r.history)-1 {
		return r.current, false, nil
	}
	return r.restore(ctx, r.index+1)
}

func (r *Router) restore(ctx context.Context, index int) (Route, bool, error) {
	route, err := r.resolve(ctx, r.history[index])
	if err != nil {
		return r.current, false, err
	}
	r.index = index
	r.current = route
	return route, true, nil
}

// Current returns the current route.
func (r *Router) Current() Route {
	return r.current
}

// History returns a copy of the history stack and the current position.
func (r *Router) History() ([]Location, int) {
	return append([]Location(nil), r.history...), r.index
}

// LoadErr is the article load failure, if the load has finished with one.
func (r *Router) LoadErr() error {
	return r.loadErr
}

func (r *Router) push(loc Location) {
	r.history = append(r.history[:r.index+1], loc)
	r.index = len(r.history) - 1
}

// resolve only blocks on the article store for article locations. The
// returned error is non-nil only when ctx ends first.
func (r *Router) resolve(ctx context.Context, loc Location) (Route, error) {
	var lookup Lookup
	if _, ok := loc.ArticleRef(); ok {
		store, err := r.wait(ctx)
		if err != nil {
			return Route{}, err
		}
		if store != nil {
			lookup = store
		}
	}
	route := resolve(loc, lookup, r.fallback())
	if route.Page == PageNotFound && r.loadErr != nil && lookup == nil {
		if _, ok := loc.ArticleRef(); ok {
			route.Err = fmt.Errorf("%w: %w", ErrNotFound, r.loadErr)
		}
	}
	return route, nil
}

// wait returns nil without error when the load failed; loadErr is set then.
func (r *Router) wait(ctx context.Context) (*articles.Store, error) {
	if r.pending == nil {
		return nil, nil
	}
	store, err := r.pending.Wait(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		r.loadErr = err
		return nil, nil
	}
	return store, nil
}

func (r *Router) fallback() Page {
	if r.mode == ModeLegacy {
		return PageHome
	}
	return PageNotFound
}
