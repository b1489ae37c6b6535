package content

import (
	"strings"
	"testing"
)

func TestLoad(t *testing.T) {
	s, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Contact.Email != "team@bytetobeacon.com" {
		t.Errorf("contact email = %q", s.Contact.Email)
	}
	if len(s.About.Values) != 5 {
		t.Errorf("values = %d, want 5", len(s.About.Values))
	}
	if len(s.About.CodeOfConduct) != 6 {
		t.Errorf("code of conduct entries = %d, want 6", len(s.About.CodeOfConduct))
	}
	if len(s.Career.FutureOpportunities) != 4 {
		t.Errorf("future opportunities = %d, want 4", len(s.Career.FutureOpportunities))
	}
	if !strings.Contains(s.GuidelinesHTML, "<h2 id=\"submission-guidelines\">") {
		t.Errorf("guidelines missing heading: %s", s.GuidelinesHTML)
	}
	if !strings.Contains(s.GuidelinesHTML, "<pre") {
		t.Error("guidelines should contain a highlighted code block")
	}
}

func TestMarkdownOmitsRawHTML(t *testing.T) {
	out, err := Markdown([]byte("hello <script>alert(1)</script>"))
	if err != nil {
		t.Fatalf("Markdown: %v", err)
	}
	if strings.Contains(out, "<script>") {
		t.Errorf("raw HTML passed through: %s", out)
	}
}

func TestParseInvalidYAML(t *testing.T) {
	if _, err := Parse([]byte("home: [unterminated"), nil); err == nil {
		t.Error("expected error for invalid YAML")
	}
}
