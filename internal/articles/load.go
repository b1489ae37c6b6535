package articles

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrLoad marks every failure to populate the store at startup.
var ErrLoad = errors.New("article load failed")

// SourceEmbedded selects the document compiled into the binary.
const SourceEmbedded = "embedded"

//go:embed data/articles.json
var embeddedDocument []byte

// Meta is the informational header of an articles document.
type Meta struct {
	Total       int    `json:"total,omitempty"`
	Generated   string `json:"generated,omitempty"`
	Version     string `json:"version,omitempty"`
	Description string `json:"description,omitempty"`
}

// Document is the on-disk and over-the-wire shape of the article source.
type Document struct {
	Meta     Meta      `json:"meta"`
	Articles []Article `json:"articles"`
}

// Decode parses an articles document and builds a store from it.
func Decode(r io.Reader) (*Store, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding articles document: %w", err)
	}
	s, err := NewStore(doc.Articles)
	if err != nil {
		return nil, err
	}
	s.meta = doc.Meta
	return s, nil
}

// Loader populates a store from a configured source: "embedded", an
// http(s) URL, a file path, or a doublestar glob of JSON documents.
type Loader struct {
	Source string
	Client *http.Client
}

// NewLoader creates a Loader for source. An empty source means embedded.
func NewLoader(source string) *Loader {
	if source == "" {
		source = SourceEmbedded
	}
	return &Loader{
		Source: source,
		Client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Load reads the source once. Every error wraps ErrLoad.
func (l *Loader) Load(ctx context.Context) (*Store, error) {
	s, err := l.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLoad, l.Source, err)
	}
	return s, nil
}

func (l *Loader) load(ctx context.Context) (*Store, error) {
	switch {
	case l.Source == SourceEmbedded:
		return Decode(bytes.NewReader(embeddedDocument))
	case strings.HasPrefix(l.Source, "http://"), strings.HasPrefix(l.Source, "https://"):
		return l.fetch(ctx)
	case strings.ContainsAny(l.Source, "*?[{"):
		return l.glob()
	default:
		return loadFile(l.Source)
	}
}

func (l *Loader) fetch(ctx context.Context) (*Store, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.Source, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return Decode(resp.Body)
}

func loadFile(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// glob merges every document matching the pattern, in lexical path order.
func (l *Loader) glob() (*Store, error) {
	base, pattern := doublestar.SplitPattern(filepath.ToSlash(l.Source))
	matches, err := doublestar.Glob(os.DirFS(base), pattern)
	if err != nil {
		return nil, fmt.Errorf("matching %s: %w", l.Source, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no documents match %s", l.Source)
	}
	sort.Strings(matches)

	var (
		merged []Article
		meta   Meta
	)
	for _, m := range matches {
		s, err := loadFile(filepath.Join(base, filepath.FromSlash(m)))
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", m, err)
		}
		if meta.Version == "" {
			meta = s.Meta()
		}
		merged = append(merged, s.articles...)
	}

	s, err := NewStore(merged)
	if err != nil {
		return nil, err
	}
	s.meta = meta
	return s, nil
}
