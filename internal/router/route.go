package router

import (
	"errors"
	"fmt"

	"github.com/bytetobeacon/beacon/internal/articles"
)

// ErrNotFound is reported on a not-found route.
var ErrNotFound = errors.New("route not found")

// Lookup resolves an article reference; *articles.Store implements it.
type Lookup interface {
	Resolve(ref string) (articles.Article, error)
}

// Route is the resolved view for a location.
type Route struct {
	Page     Page
	Location Location
	// Article is set on article-detail routes.
	Article *articles.Article
	// Err explains a not-found route.
	Err error
}

// Title is the document title for the route.
func (r Route) Title() string {
	if r.Page == PageArticle && r.Article != nil {
		return ArticleTitle(r.Article.Title)
	}
	return r.Page.Title()
}

// ActiveNav is the navigation page to highlight, empty when none applies.
func (r Route) ActiveNav() Page {
	if _, ok := pagePaths[r.Page]; ok {
		return r.Page
	}
	return ""
}

// ArticleID is the id of the shown article, 0 when none.
func (r Route) ArticleID() int {
	if r.Article == nil {
		return 0
	}
	return r.Article.ID
}

// Resolve maps a location to a route using the navigation-surface rule:
// unknown paths are not found. store may be nil when no articles are
// available; article locations then resolve to not-found.
func Resolve(loc Location, store Lookup) Route {
	return resolve(loc, store, PageNotFound)
}

// ResolveLegacy is Resolve with the fixed-table rule: unknown paths fall
// back to home.
func ResolveLegacy(loc Location, store Lookup) Route {
	return resolve(loc, store, PageHome)
}

func resolve(loc Location, store Lookup, fallback Page) Route {
	if ref, ok := loc.ArticleRef(); ok {
		return resolveArticle(loc, ref, store)
	}
	if page, ok := routeTable[loc.routeKey()]; ok {
		return Route{Page: page, Location: loc}
	}
	if fallback == PageNotFound {
		return notFound(loc, fmt.Errorf("%w: %s", ErrNotFound, loc.Path))
	}
	return Route{Page: fallback, Location: loc}
}

func resolveArticle(loc Location, ref string, store Lookup) Route {
	if ref == "" {
		return notFound(loc, fmt.Errorf("%w: empty article reference", ErrNotFound))
	}
	if store == nil {
		return notFound(loc, fmt.Errorf("%w: article %q: no articles loaded", ErrNotFound, ref))
	}
	a, err := store.Resolve(ref)
	if err != nil {
		return notFound(loc, fmt.Errorf("%w: article %q: %w", ErrNotFound, ref, err))
	}
	return Route{Page: PageArticle, Location: loc, Article: &a}
}

func notFound(loc Location, err error) Route {
	return Route{Page: PageNotFound, Location: loc, Err: err}
}
