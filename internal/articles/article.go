// Package articles holds the article model and the in-memory article store.
package articles

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format of Article.Date.
const DateLayout = "2006-01-02"

// Date is a calendar date without a time of day.
type Date struct {
	time.Time
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return Date{Time: t}, nil
}

// String returns the date in YYYY-MM-DD form.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// Long formats the date for display, e.g. "October 15, 2025".
func (d Date) Long() string {
	if d.IsZero() {
		return ""
	}
	return d.Format("January 2, 2006")
}

// MarshalJSON encodes the date as a YYYY-MM-DD string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON decodes a YYYY-MM-DD string. An empty string leaves the date zero.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Article is a single published article.
type Article struct {
	ID       int      `json:"id"`
	Slug     string   `json:"slug"`
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Date     Date     `json:"date"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
	Excerpt  string   `json:"excerpt"`
	Content  string   `json:"content"`
	ReadTime string   `json:"readTime"`
}

// ParagraphSeparator separates paragraphs in Article.Content.
const ParagraphSeparator = "\n\n"

// Paragraphs splits content on the blank-line convention. Each paragraph is
// trimmed; the same input always yields the same sequence.
func Paragraphs(content string) []string {
	if content == "" {
		return nil
	}
	parts := strings.Split(content, ParagraphSeparator)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}

// Paragraphs returns the article's content split into paragraphs.
func (a Article) Paragraphs() []string {
	return Paragraphs(a.Content)
}

// Path returns the canonical navigation path of the article.
func (a Article) Path() string {
	return "/article/" + a.Slug
}

// Fragment returns the legacy fragment reference of the article.
func (a Article) Fragment() string {
	return fmt.Sprintf("#article-%d", a.ID)
}

// clone returns a copy that shares no mutable state with a.
func (a Article) clone() Article {
	if a.Tags != nil {
		a.Tags = append([]string(nil), a.Tags...)
	}
	return a
}
