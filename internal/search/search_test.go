package search

import (
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/bytetobeacon/beacon/internal/articles"
)

func sampleArticles() []articles.Article {
	return []articles.Article{
		{ID: 1, Slug: "review", Title: "Reviewing pull requests", Author: "Sarah Chen",
			Category: "Practices", Tags: []string{"code", "review"}, Content: "Small diffs."},
		{ID: 2, Slug: "css", Title: "Modern CSS", Author: "Alex Thompson",
			Category: "Web Development", Content: "Grid and flexbox."},
		{ID: 3, Slug: "serverless", Title: "Understanding Serverless", Author: "Mike Rodriguez",
			Category: "DevOps", Tags: []string{"cloud"}, Excerpt: "Functions as a service.",
			Content: "Cold starts matter."},
	}
}

func slugs(list []articles.Article) []string {
	out := make([]string, len(list))
	for i, a := range list {
		out[i] = a.Slug
	}
	return out
}

func TestTerms(t *testing.T) {
	tests := []struct {
		query string
		want  []string
	}{
		{"", nil},
		{"  a  ", nil},
		{"go", []string{"go"}},
		{"  Code   REVIEW ", []string{"code", "review"}},
	}
	for _, tt := range tests {
		got := Terms(tt.query)
		if strings.Join(got, "|") != strings.Join(tt.want, "|") {
			t.Errorf("Terms(%q) = %q, want %q", tt.query, got, tt.want)
		}
	}
}

func TestFilterShortQueryIsCategoryOnly(t *testing.T) {
	list := sampleArticles()
	for _, q := range []string{"", " ", "c", " x ", "\tz\n"} {
		got := Filter(list, q, AllCategories)
		if len(got) != len(list) {
			t.Errorf("Filter(%q, all) returned %d, want %d", q, len(got), len(list))
		}
		got = Filter(list, q, "DevOps")
		if len(got) != 1 || got[0].Slug != "serverless" {
			t.Errorf("Filter(%q, DevOps) = %v, want [serverless]", q, slugs(got))
		}
	}
}

func TestFilterTagMatch(t *testing.T) {
	list := []articles.Article{
		{ID: 1, Slug: "tagged", Title: "One", Tags: []string{"code", "review"}},
		{ID: 2, Slug: "plain", Title: "Two"},
	}
	got := Filter(list, "code", AllCategories)
	if len(got) != 1 || got[0].Slug != "tagged" {
		t.Fatalf("Filter(code) = %v, want [tagged]", slugs(got))
	}
}

func TestFilterIsExact(t *testing.T) {
	list := sampleArticles()
	queries := []string{"serverless cold", "CSS grid", "chen", "functions", "devops", "zzz", "review small"}
	for _, q := range queries {
		got := Filter(list, q, AllCategories)
		in := make(map[int]bool)
		for _, a := range got {
			in[a.ID] = true
		}
		for _, a := range list {
			text := Searchable(a)
			all := true
			for _, term := range Terms(q) {
				if !strings.Contains(text, term) {
					all = false
				}
			}
			if all != in[a.ID] {
				t.Errorf("query %q: article %q match=%v, returned=%v", q, a.Slug, all, in[a.ID])
			}
		}
	}
}

func TestFilterSearchesEveryField(t *testing.T) {
	list := []articles.Article{
		{ID: 1, Slug: "title", Title: "Quokkatitle"},
		{ID: 2, Slug: "author", Author: "Quokkaauthor"},
		{ID: 3, Slug: "content", Content: "Quokkacontent"},
		{ID: 4, Slug: "excerpt", Excerpt: "Quokkaexcerpt"},
		{ID: 5, Slug: "category", Category: "Quokkacategory"},
		{ID: 6, Slug: "tags", Tags: []string{"other", "Quokkatag"}},
	}
	tests := []struct {
		query string
		want  string
	}{
		{"quokkatitle", "title"},
		{"QUOKKAAUTHOR", "author"},
		{"quokkacontent", "content"},
		{"quokkaexcerpt", "excerpt"},
		{"quokkacategory", "category"},
		{"quokkatag", "tags"},
	}
	for _, tt := range tests {
		got := Filter(list, tt.query, AllCategories)
		if len(got) != 1 || got[0].Slug != tt.want {
			t.Errorf("Filter(%q) = %v, want [%s]", tt.query, slugs(got), tt.want)
		}
	}

	if got := Filter(list, "quokka", AllCategories); len(got) != len(list) {
		t.Errorf("shared prefix matched %v, want every article", slugs(got))
	}
	// Terms may come from different fields of the same article.
	mixed := []articles.Article{{ID: 1, Slug: "mixed", Title: "Edge", Author: "Grace", Tags: []string{"wasm"}}}
	if got := Filter(mixed, "grace wasm edge", AllCategories); len(got) != 1 {
		t.Errorf("cross-field terms = %v, want [mixed]", slugs(got))
	}
}

func TestFilterCategoryNamedLikeSentinel(t *testing.T) {
	list := []articles.Article{
		{ID: 1, Slug: "a", Category: "All"},
		{ID: 2, Slug: "b", Category: "DevOps"},
	}
	if got := Filter(list, "", "All"); len(got) != 1 || got[0].Slug != "a" {
		t.Errorf("Filter(All) = %v, want [a]", slugs(got))
	}
	if got := Filter(list, "", AllCategories); len(got) != 2 {
		t.Errorf("Filter(%q) = %v, want both", AllCategories, slugs(got))
	}
}

func TestFilterCategoryIsCaseSensitive(t *testing.T) {
	list := sampleArticles()
	if got := Filter(list, "", "devops"); len(got) != 0 {
		t.Errorf("expected no results for lower-case category, got %v", slugs(got))
	}
	if got := Filter(list, "modern", "Web Development"); len(got) != 1 {
		t.Errorf("expected 1 result, got %v", slugs(got))
	}
	if got := Filter(list, "modern", "DevOps"); len(got) != 0 {
		t.Errorf("category and query must both hold, got %v", slugs(got))
	}
}

func TestFilterPreservesOrder(t *testing.T) {
	list := sampleArticles()
	got := Filter(list, "ce", AllCategories)
	want := []string{"review", "serverless"}
	if strings.Join(slugs(got), ",") != strings.Join(want, ",") {
		t.Errorf("order = %v, want %v", slugs(got), want)
	}
}

func TestCategories(t *testing.T) {
	list := append(sampleArticles(), articles.Article{ID: 4, Slug: "x", Category: "DevOps"})
	got := Categories(list)
	want := []string{"Practices", "Web Development", "DevOps"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Categories = %v, want %v", got, want)
	}
}

func TestHighlight(t *testing.T) {
	tests := []struct {
		name, text, query, want string
	}{
		{"empty query escapes", `<b>"Tom" & 'Jerry'</b>`, "",
			"&lt;b&gt;&quot;Tom&quot; &amp; &#039;Jerry&#039;&lt;/b&gt;"},
		{"short query escapes", "a < b", "a", "a &lt; b"},
		{"keeps original case", "Go and GO", "go", "<mark>Go</mark> and <mark>GO</mark>"},
		{"multiple terms", "Modern CSS Grid", "css grid", "Modern <mark>CSS</mark> <mark>Grid</mark>"},
		{"escapes inside marks", "Tom & Jerry", "& j", "Tom <mark>&amp;</mark> <mark>J</mark>erry"},
		// Overlapping matches from two terms become one mark.
		{"merges overlaps", "serverless", "server verless", "<mark>serverless</mark>"},
		// A term that spells part of the marker or an entity never matches it.
		{"never matches markup", "a mark & amp", "mark amp", "a <mark>mark</mark> &amp; <mark>amp</mark>"},
		{"no match", "plain", "zz", "plain"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Highlight(tt.text, tt.query); got != tt.want {
				t.Errorf("Highlight(%q, %q) = %q, want %q", tt.text, tt.query, got, tt.want)
			}
		})
	}
}

func TestHighlightEmptyEqualsEscape(t *testing.T) {
	for _, text := range []string{"", "plain", `<script>alert("x")</script>`} {
		if got := Highlight(text, ""); got != Escape(text) {
			t.Errorf("Highlight(%q, \"\") = %q, want %q", text, got, Escape(text))
		}
	}
}

func TestSpansUnicode(t *testing.T) {
	// U+212A KELVIN SIGN lower-cases to a one-byte "k".
	text := "\u212Aelvin scale"
	spans := Spans(text, "kelvin")
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %v", spans)
	}
	if got := text[spans[0].Start:spans[0].End]; got != "\u212Aelvin" {
		t.Errorf("span text = %q, want %q", got, "\u212Aelvin")
	}
}

func TestSegmentsRoundTrip(t *testing.T) {
	text := "Reviewing code reviews"
	var b strings.Builder
	for _, seg := range Segments(text, "review") {
		b.WriteString(seg.Text)
	}
	if b.String() != text {
		t.Errorf("segments lost text: %q", b.String())
	}
}

func TestStateCounter(t *testing.T) {
	s := State{Query: "  x "}.Normalize()
	if s.Active() {
		t.Error("single character query should be inactive")
	}
	if s.Category != AllCategories {
		t.Errorf("Category = %q, want %q", s.Category, AllCategories)
	}
	if s.Filtered() {
		t.Error("expected unfiltered state")
	}
	if got := Counter(2, 5); got != "2 of 5 articles" {
		t.Errorf("Counter(2, 5) = %q", got)
	}
	if got := Counter(5, 5); got != "5 articles" {
		t.Errorf("Counter(5, 5) = %q", got)
	}
}

type recorder struct {
	mu    sync.Mutex
	calls []string
	fired chan struct{}
}

func newRecorder() *recorder { return &recorder{fired: make(chan struct{}, 16)} }

func (r *recorder) record(v string) {
	r.mu.Lock()
	r.calls = append(r.calls, v)
	r.mu.Unlock()
	r.fired <- struct{}{}
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func TestDebouncerCoalesces(t *testing.T) {
	defer goleak.VerifyNone(t)

	rec := newRecorder()
	d := NewDebouncer(20*time.Millisecond, rec.record)
	for _, q := range []string{"s", "se", "ser", "serv"} {
		d.Push(q)
	}

	select {
	case <-rec.fired:
	case <-time.After(time.Second):
		t.Fatal("debounced call never fired")
	}
	time.Sleep(40 * time.Millisecond)

	got := rec.snapshot()
	if len(got) != 1 || got[0] != "serv" {
		t.Errorf("calls = %q, want [serv]", got)
	}
	if d.Pending() {
		t.Error("nothing should be pending after firing")
	}
}

func TestDebouncerFlushAndStop(t *testing.T) {
	defer goleak.VerifyNone(t)

	rec := newRecorder()
	d := NewDebouncer(time.Hour, rec.record)

	if d.Flush() {
		t.Error("Flush with nothing pending should report false")
	}

	d.Push("go")
	if !d.Flush() {
		t.Fatal("Flush should run the pending value")
	}
	if got := rec.snapshot(); len(got) != 1 || got[0] != "go" {
		t.Errorf("calls = %q, want [go]", got)
	}

	d.Push("discarded")
	d.Stop()
	if d.Pending() {
		t.Error("Stop should clear the pending value")
	}
	if d.Flush() {
		t.Error("Flush after Stop should do nothing")
	}
}
