// Package search implements literal, case-insensitive filtering and
// highlighting over the article store.
package search

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/bytetobeacon/beacon/internal/articles"
)

// MinQueryLength is the shortest trimmed query that takes effect. Shorter
// queries behave as an empty query.
const MinQueryLength = 2

// AllCategories disables the category filter.
const AllCategories = articles.ReservedCategory

// fieldSeparator joins the searchable fields. Terms never contain
// whitespace, so no term can match across two fields.
const fieldSeparator = " "

// fold lower-cases s one rune at a time, the same way highlighting does.
func fold(s string) string {
	return strings.Map(unicode.ToLower, s)
}

// Terms splits the query on whitespace into lower-case terms. It returns
// nil when the trimmed query is shorter than MinQueryLength.
func Terms(query string) []string {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < MinQueryLength {
		return nil
	}
	return strings.Fields(fold(query))
}

// Searchable returns the folded concatenation of every field a query is
// matched against.
func Searchable(a articles.Article) string {
	fields := make([]string, 0, 5+len(a.Tags))
	fields = append(fields, a.Title, a.Author, a.Content, a.Excerpt, a.Category)
	fields = append(fields, a.Tags...)
	return fold(strings.Join(fields, fieldSeparator))
}

// Matches reports whether every term is a substring of the article's
// searchable text. An empty term list matches everything.
func Matches(a articles.Article, terms []string) bool {
	if len(terms) == 0 {
		return true
	}
	text := Searchable(a)
	for _, term := range terms {
		if !strings.Contains(text, term) {
			return false
		}
	}
	return true
}

// InCategory reports whether a passes the category filter. The comparison
// is exact and case-sensitive; "" and AllCategories accept everything.
func InCategory(a articles.Article, category string) bool {
	return category == "" || category == AllCategories || a.Category == category
}

// Filter returns the articles in the given category that match every
// query term, preserving input order. It never returns nil.
func Filter(list []articles.Article, query, category string) []articles.Article {
	terms := Terms(query)
	out := make([]articles.Article, 0, len(list))
	for _, a := range list {
		if InCategory(a, category) && Matches(a, terms) {
			out = append(out, a)
		}
	}
	return out
}

// Categories lists the distinct categories in first-seen order.
func Categories(list []articles.Article) []string {
	seen := make(map[string]bool)
	var out []string
	for _, a := range list {
		if a.Category == "" || seen[a.Category] {
			continue
		}
		seen[a.Category] = true
		out = append(out, a.Category)
	}
	return out
}
