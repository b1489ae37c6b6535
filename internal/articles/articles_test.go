package articles

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func testArticles() []Article {
	return []Article{
		{ID: 1, Slug: "first", Title: "First", Tags: []string{"code", "review"}, Content: "One.\n\nTwo."},
		{ID: 2, Slug: "second", Title: "Second"},
		{ID: 3, Slug: "42", Title: "Numeric slug"},
	}
}

func TestNewStoreRejectsDuplicates(t *testing.T) {
	tests := []struct {
		name string
		list []Article
	}{
		{"duplicate id", []Article{{ID: 1, Slug: "a"}, {ID: 1, Slug: "b"}}},
		{"duplicate slug", []Article{{ID: 1, Slug: "a"}, {ID: 2, Slug: "a"}}},
		{"missing slug", []Article{{ID: 1}}},
		{"reserved category", []Article{{ID: 1, Slug: "a", Category: ReservedCategory}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewStore(tt.list); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestStorePreservesOrder(t *testing.T) {
	s, err := NewStore(testArticles())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	all := s.All()
	if len(all) != 3 {
		t.Fatalf("expected 3 articles, got %d", len(all))
	}
	for i, want := range []string{"first", "second", "42"} {
		if all[i].Slug != want {
			t.Errorf("all[%d].Slug = %q, want %q", i, all[i].Slug, want)
		}
	}
}

func TestStoreIsImmutable(t *testing.T) {
	list := testArticles()
	s, err := NewStore(list)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	list[0].Tags[0] = "mutated"
	got, _ := s.ByID(1)
	if got.Tags[0] != "code" {
		t.Errorf("store shares tags with input: %v", got.Tags)
	}

	got.Tags[0] = "mutated"
	again, _ := s.ByID(1)
	if again.Tags[0] != "code" {
		t.Errorf("store shares tags with callers: %v", again.Tags)
	}
}

func TestStoreResolve(t *testing.T) {
	s, _ := NewStore(testArticles())

	tests := []struct {
		ref    string
		wantID int
	}{
		{"first", 1},
		{"2", 2},
		{"42", 3}, // slug wins over id
		{" second ", 2},
	}
	for _, tt := range tests {
		a, err := s.Resolve(tt.ref)
		if err != nil {
			t.Fatalf("Resolve(%q): %v", tt.ref, err)
		}
		if a.ID != tt.wantID {
			t.Errorf("Resolve(%q).ID = %d, want %d", tt.ref, a.ID, tt.wantID)
		}
	}

	if _, err := s.Resolve("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Resolve(missing) err = %v, want ErrNotFound", err)
	}
	if _, err := s.ByID(99); !errors.Is(err, ErrNotFound) {
		t.Errorf("ByID(99) err = %v, want ErrNotFound", err)
	}
}

func TestParagraphsStable(t *testing.T) {
	content := "First paragraph.\n\n  Second paragraph.  \n\nThird."
	a := Paragraphs(content)
	b := Paragraphs(content)
	if len(a) != 3 {
		t.Fatalf("expected 3 paragraphs, got %d: %q", len(a), a)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("paragraph %d differs between calls: %q vs %q", i, a[i], b[i])
		}
	}
	if a[1] != "Second paragraph." {
		t.Errorf("paragraph 1 = %q, want trimmed text", a[1])
	}
	if Paragraphs("") != nil {
		t.Error("expected nil paragraphs for empty content")
	}
}

func TestDateJSON(t *testing.T) {
	var a Article
	if err := a.Date.UnmarshalJSON([]byte(`"2025-10-15"`)); err != nil {
		t.Fatalf("UnmarshalJSON: %v", err)
	}
	if got := a.Date.Long(); got != "October 15, 2025" {
		t.Errorf("Long() = %q, want %q", got, "October 15, 2025")
	}
	b, _ := a.Date.MarshalJSON()
	if string(b) != `"2025-10-15"` {
		t.Errorf("MarshalJSON = %s", b)
	}
	if err := a.Date.UnmarshalJSON([]byte(`"15/10/2025"`)); err == nil {
		t.Error("expected error for malformed date")
	}
}

func TestLoadEmbedded(t *testing.T) {
	s, err := NewLoader("").Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Len() == 0 {
		t.Fatal("embedded document has no articles")
	}
	if s.Meta().Version == "" {
		t.Error("expected embedded meta version")
	}
	for _, a := range s.All() {
		if a.Date.IsZero() {
			t.Errorf("article %q has no date", a.Slug)
		}
	}
}

const docJSON = `{"meta":{"version":"1.0.0"},"articles":[{"id":1,"slug":"a","title":"A","date":"2025-10-01"}]}`

func TestLoadFileAndGlob(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "more"), 0o755); err != nil {
		t.Fatal(err)
	}
	first := filepath.Join(dir, "a.json")
	os.WriteFile(first, []byte(docJSON), 0o644)
	os.WriteFile(filepath.Join(dir, "more", "b.json"),
		[]byte(`{"articles":[{"id":2,"slug":"b","title":"B"}]}`), 0o644)

	s, err := NewLoader(first).Load(context.Background())
	if err != nil {
		t.Fatalf("Load file: %v", err)
	}
	if s.Len() != 1 {
		t.Errorf("expected 1 article, got %d", s.Len())
	}

	s, err = NewLoader(filepath.Join(dir, "**", "*.json")).Load(context.Background())
	if err != nil {
		t.Fatalf("Load glob: %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("expected 2 merged articles, got %d", s.Len())
	}
	if s.All()[0].Slug != "a" {
		t.Errorf("expected lexical order, got %q first", s.All()[0].Slug)
	}
}

func TestLoadURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/data/articles.json" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(docJSON))
	}))
	defer srv.Close()

	s, err := NewLoader(srv.URL + "/data/articles.json").Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Len() != 1 {
		t.Errorf("expected 1 article, got %d", s.Len())
	}

	_, err = NewLoader(srv.URL + "/missing.json").Load(context.Background())
	if !errors.Is(err, ErrLoad) {
		t.Fatalf("expected ErrLoad, got %v", err)
	}
	if !strings.Contains(err.Error(), "404") {
		t.Errorf("expected status in error, got %v", err)
	}
}

func TestPendingWait(t *testing.T) {
	p := NewPending()
	if p.Loaded() || p.Err() != nil {
		t.Fatal("new pending should not be loaded")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := p.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline, got %v", err)
	}

	s, _ := NewStore(testArticles())
	p.Resolve(s, nil)
	p.Resolve(nil, errors.New("ignored"))

	got, err := p.Wait(context.Background())
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if got.Len() != 3 {
		t.Errorf("expected 3 articles, got %d", got.Len())
	}
}

func TestPendingFailureLeavesEmptyStore(t *testing.T) {
	p := Start(context.Background(), NewLoader(filepath.Join(t.TempDir(), "nope.json")))
	s, err := p.Wait(context.Background())
	if !errors.Is(err, ErrLoad) {
		t.Fatalf("expected ErrLoad, got %v", err)
	}
	if s == nil || s.Len() != 0 {
		t.Errorf("expected empty store after failure, got %v", s)
	}
	if !errors.Is(p.Err(), ErrLoad) {
		t.Errorf("Err() = %v, want ErrLoad", p.Err())
	}
}
