package search

import (
	"fmt"
	"strings"

	"github.com/bytetobeacon/beacon/internal/articles"
)

// State is the current search input: a free-text query and a category.
// The zero value is inactive and unfiltered.
type State struct {
	Query    string `json:"query"`
	Category string `json:"category"`
}

// Normalize trims the query and maps an empty category to AllCategories.
func (s State) Normalize() State {
	s.Query = strings.TrimSpace(s.Query)
	if s.Category == "" {
		s.Category = AllCategories
	}
	return s
}

// Active reports whether the query is long enough to filter.
func (s State) Active() bool {
	return len(Terms(s.Query)) > 0
}

// Filtered reports whether the state narrows the article list at all.
func (s State) Filtered() bool {
	return s.Active() || (s.Category != "" && s.Category != AllCategories)
}

// HighlightQuery returns the query to highlight with, empty when inactive.
func (s State) HighlightQuery() string {
	if !s.Active() {
		return ""
	}
	return s.Query
}

// Apply filters list by the state.
func (s State) Apply(list []articles.Article) []articles.Article {
	return Filter(list, s.Query, s.Category)
}

// Counter formats the "N of M" result counter shown above the list.
func Counter(shown, total int) string {
	if shown == total {
		return fmt.Sprintf("%d articles", total)
	}
	return fmt.Sprintf("%d of %d articles", shown, total)
}
