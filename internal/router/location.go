package router

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	articlePathPrefix     = "/article/"
	articleFragmentPrefix = "article-"
)

// Location is the part of a URL the router looks at.
type Location struct {
	Path     string
	Fragment string
}

// ParseLocation accepts a path, a path with fragment, a bare fragment or a
// full URL. Query strings are ignored.
func ParseLocation(raw string) Location {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return Location{Path: "/"}
	}
	return Location{Path: cleanPath(u.Path), Fragment: u.Fragment}
}

func cleanPath(p string) string {
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
		if p == "" {
			p = "/"
		}
	}
	return p
}

// PageLocation is the location of a static page.
func PageLocation(p Page) Location {
	return Location{Path: p.Path()}
}

// ArticleLocation is the canonical location of an article.
func ArticleLocation(slug string) Location {
	return Location{Path: articlePathPrefix + url.PathEscape(slug)}
}

// FragmentLocation is the legacy "#article-<id>" location of an article.
func FragmentLocation(id int) Location {
	return Location{Path: "/", Fragment: articleFragmentPrefix + strconv.Itoa(id)}
}

// String renders the location as a URL reference.
func (l Location) String() string {
	s := l.Path
	if s == "" {
		s = "/"
	}
	if l.Fragment != "" {
		s += "#" + l.Fragment
	}
	return s
}

// ArticleRef extracts an article reference. A "#article-<id>" fragment wins
// over an "/article/<slug>" path. ok is false when the location names no
// article at all; ref may be empty when it names one badly.
func (l Location) ArticleRef() (ref string, ok bool) {
	if strings.HasPrefix(l.Fragment, articleFragmentPrefix) {
		return strings.TrimPrefix(l.Fragment, articleFragmentPrefix), true
	}
	if l.Path+"/" == articlePathPrefix || strings.HasPrefix(l.Path, articlePathPrefix) {
		slug := strings.TrimPrefix(l.Path, strings.TrimSuffix(articlePathPrefix, "/"))
		slug = strings.TrimPrefix(slug, "/")
		if unescaped, err := url.PathUnescape(slug); err == nil {
			slug = unescaped
		}
		return slug, true
	}
	return "", false
}

// routeKey is the path without its leading slash, as used by routeTable.
func (l Location) routeKey() string {
	return strings.TrimPrefix(l.Path, "/")
}
