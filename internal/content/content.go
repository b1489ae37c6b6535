// Package content holds the static copy of the site: the about, contact and
// career pages, and the markdown submission guidelines.
package content

import (
	"bytes"
	_ "embed"
	"fmt"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"gopkg.in/yaml.v3"
)

//go:embed data/site.yml
var siteYAML []byte

//go:embed data/guidelines.md
var guidelinesMarkdown []byte

// Site is the static content of every non-article page.
type Site struct {
	Home    Home    `yaml:"home"`
	About   About   `yaml:"about"`
	Contact Contact `yaml:"contact"`
	Career  Career  `yaml:"career"`

	// GuidelinesHTML is the rendered submission guidelines.
	GuidelinesHTML string `yaml:"-"`
}

type Home struct {
	Heading  string `yaml:"heading"`
	Subtitle string `yaml:"subtitle"`
}

type About struct {
	Subtitle      string         `yaml:"subtitle"`
	Mission       string         `yaml:"mission"`
	Vision        string         `yaml:"vision"`
	Values        []string       `yaml:"values"`
	CodeOfConduct []ConductEntry `yaml:"code_of_conduct"`
}

type ConductEntry struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

type Contact struct {
	Description  string `yaml:"description"`
	Email        string `yaml:"email"`
	ResponseTime string `yaml:"response_time"`
	OfficeHours  string `yaml:"office_hours"`
}

type Career struct {
	Status              string   `yaml:"status"`
	Headline            string   `yaml:"headline"`
	Message             string   `yaml:"message"`
	Note                string   `yaml:"note"`
	FutureOpportunities []string `yaml:"future_opportunities"`
	InquiryMessage      string   `yaml:"inquiry_message"`
}

var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		highlighting.NewHighlighting(
			highlighting.WithStyle("github"),
		),
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
)

// Load returns the embedded site content.
func Load() (*Site, error) {
	return Parse(siteYAML, guidelinesMarkdown)
}

// MustLoad is Load for package initialization and tests.
func MustLoad() *Site {
	s, err := Load()
	if err != nil {
		panic(err)
	}
	return s
}

// Parse decodes site YAML and renders the guidelines markdown.
func Parse(siteData, guidelines []byte) (*Site, error) {
	var s Site
	if err := yaml.Unmarshal(siteData, &s); err != nil {
		return nil, fmt.Errorf("parsing site content: %w", err)
	}
	html, err := Markdown(guidelines)
	if err != nil {
		return nil, fmt.Errorf("rendering guidelines: %w", err)
	}
	s.GuidelinesHTML = html
	return &s, nil
}

// Markdown converts markdown to HTML. Raw HTML in the source is omitted.
func Markdown(src []byte) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert(src, &buf); err != nil {
		return "", fmt.Errorf("converting markdown: %w", err)
	}
	return buf.String(), nil
}
