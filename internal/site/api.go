package site

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bytetobeacon/beacon/internal/articles"
	"github.com/bytetobeacon/beacon/internal/search"
)

// searchResponse is the JSON response for the /api/search endpoint.
type searchResponse struct {
	Query    string               `json:"query"`
	Category string               `json:"category"`
	Counter  string               `json:"counter"`
	Total    int                  `json:"total"`
	Results  []searchResponseItem `json:"results"`
}

// searchResponseItem is one result in the /api/search response.
type searchResponseItem struct {
	ID        int      `json:"id"`
	Slug      string   `json:"slug"`
	Path      string   `json:"path"`
	Title     string   `json:"title"`
	TitleHTML string   `json:"title_html"`
	Author    string   `json:"author"`
	Date      string   `json:"date"`
	Category  string   `json:"category"`
	Tags      []string `json:"tags,omitempty"`
	Excerpt   string   `json:"excerpt"`
	ReadTime  string   `json:"read_time,omitempty"`
}

func (s *Site) handleSearch(w http.ResponseWriter, r *http.Request) {
	store, ok := s.loadedStore(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	state := search.State{Query: q.Get("q"), Category: q.Get("category")}.Normalize()
	all := store.All()
	results := state.Apply(all)
	hq := state.HighlightQuery()

	items := make([]searchResponseItem, len(results))
	for i, a := range results {
		items[i] = searchResponseItem{
			ID:        a.ID,
			Slug:      a.Slug,
			Path:      a.Path(),
			Title:     a.Title,
			TitleHTML: search.Highlight(a.Title, hq),
			Author:    a.Author,
			Date:      a.Date.String(),
			Category:  a.Category,
			Tags:      a.Tags,
			Excerpt:   a.Excerpt,
			ReadTime:  a.ReadTime,
		}
	}

	writeJSON(w, http.StatusOK, searchResponse{
		Query:    state.Query,
		Category: state.Category,
		Counter:  search.Counter(len(results), len(all)),
		Total:    len(all),
		Results:  items,
	})
}

func (s *Site) handleArticle(w http.ResponseWriter, r *http.Request) {
	store, ok := s.loadedStore(w, r)
	if !ok {
		return
	}
	a, err := store.Resolve(chi.URLParam(r, "ref"))
	if errors.Is(err, articles.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "article not found"})
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Site) handleDocument(w http.ResponseWriter, r *http.Request) {
	store, ok := s.loadedStore(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, store.Document())
}

// loadedStore waits for the article load and answers 503 if it failed.
func (s *Site) loadedStore(w http.ResponseWriter, r *http.Request) (*articles.Store, bool) {
	store, err := s.waitLoaded(r.Context())
	if errors.Is(err, errCanceled) {
		return nil, false
	}
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "articles unavailable"})
		return nil, false
	}
	return store, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
