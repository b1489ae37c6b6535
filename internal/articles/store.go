package articles

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrNotFound is returned when an id or slug does not name a loaded article.
var ErrNotFound = errors.New("article not found")

// Store is the ordered, read-only set of articles for a session. It is
// populated once by NewStore and never written afterwards, so it is safe
// for concurrent readers.
type Store struct {
	articles []Article
	byID     map[int]int
	bySlug   map[string]int
	meta     Meta
}

// ReservedCategory is the category filter value meaning "every category".
// No article may use it as its own category.
const ReservedCategory = "all"

// NewStore validates the given articles and returns a Store preserving
// their order. Ids and slugs must be unique, slugs non-empty, and no
// category may be ReservedCategory.
func NewStore(list []Article) (*Store, error) {
	s := &Store{
		articles: make([]Article, 0, len(list)),
		byID:     make(map[int]int, len(list)),
		bySlug:   make(map[string]int, len(list)),
	}
	for _, a := range list {
		if a.Slug == "" {
			return nil, fmt.Errorf("article %d: slug is required", a.ID)
		}
		if a.Category == ReservedCategory {
			return nil, fmt.Errorf("article %q: category %q is reserved", a.Slug, ReservedCategory)
		}
		if _, dup := s.byID[a.ID]; dup {
			return nil, fmt.Errorf("duplicate article id %d", a.ID)
		}
		if _, dup := s.bySlug[a.Slug]; dup {
			return nil, fmt.Errorf("duplicate article slug %q", a.Slug)
		}
		s.byID[a.ID] = len(s.articles)
		s.bySlug[a.Slug] = len(s.articles)
		s.articles = append(s.articles, a.clone())
	}
	return s, nil
}

// Empty returns a store with no articles.
func Empty() *Store {
	s, _ := NewStore(nil)
	return s
}

// Len returns the number of articles.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.articles)
}

// All returns copies of every article in store order.
func (s *Store) All() []Article {
	if s == nil {
		return nil
	}
	out := make([]Article, len(s.articles))
	for i, a := range s.articles {
		out[i] = a.clone()
	}
	return out
}

// ByID looks up an article by its numeric id.
func (s *Store) ByID(id int) (Article, error) {
	if s != nil {
		if i, ok := s.byID[id]; ok {
			return s.articles[i].clone(), nil
		}
	}
	return Article{}, fmt.Errorf("id %d: %w", id, ErrNotFound)
}

// BySlug looks up an article by slug.
func (s *Store) BySlug(slug string) (Article, error) {
	if s != nil {
		if i, ok := s.bySlug[slug]; ok {
			return s.articles[i].clone(), nil
		}
	}
	return Article{}, fmt.Errorf("slug %q: %w", slug, ErrNotFound)
}

// Resolve accepts either a slug or a decimal id. A slug match wins over an
// id match so numeric slugs keep working.
func (s *Store) Resolve(ref string) (Article, error) {
	ref = strings.TrimSpace(ref)
	if a, err := s.BySlug(ref); err == nil {
		return a, nil
	}
	if id, err := strconv.Atoi(ref); err == nil {
		return s.ByID(id)
	}
	return Article{}, fmt.Errorf("reference %q: %w", ref, ErrNotFound)
}

// Meta returns the document metadata the store was loaded with, if any.
func (s *Store) Meta() Meta {
	if s == nil {
		return Meta{}
	}
	return s.meta
}

// Document returns the store as a serializable document.
func (s *Store) Document() Document {
	meta := s.Meta()
	meta.Total = s.Len()
	return Document{Meta: meta, Articles: s.All()}
}
