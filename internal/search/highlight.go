package search

import (
	"sort"
	"strings"
	"unicode"
)

// MarkOpen and MarkClose wrap highlighted text in Highlight output.
const (
	MarkOpen  = "<mark>"
	MarkClose = "</mark>"
)

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// Escape makes text safe to embed in HTML.
func Escape(text string) string {
	return escaper.Replace(text)
}

// Span is a half-open byte range [Start, End) of the original text.
type Span struct {
	Start, End int
}

// Spans finds every occurrence of every query term in text and merges
// overlapping or touching ranges. Matching is done against the original
// text, never against previously marked output.
func Spans(text, query string) []Span {
	terms := Terms(query)
	if len(terms) == 0 || text == "" {
		return nil
	}

	folded, offsets := foldWithOffsets(text)
	var spans []Span
	for _, term := range terms {
		for from := 0; from < len(folded); {
			i := strings.Index(folded[from:], term)
			if i < 0 {
				break
			}
			start := from + i
			end := start + len(term)
			spans = append(spans, Span{Start: offsets[start], End: offsets[end]})
			from = end
		}
	}
	return merge(spans)
}

// foldWithOffsets folds text like fold and maps every byte position of the
// folded string back to a byte position in text. Lower-casing can change a
// rune's encoded width, so positions are not shared between the two.
func foldWithOffsets(text string) (string, []int) {
	var b strings.Builder
	b.Grow(len(text))
	offsets := make([]int, 0, len(text)+1)
	for i, r := range text {
		n, _ := b.WriteRune(unicode.ToLower(r))
		for k := 0; k < n; k++ {
			offsets = append(offsets, i)
		}
	}
	offsets = append(offsets, len(text))
	return b.String(), offsets
}

func merge(spans []Span) []Span {
	if len(spans) == 0 {
		return nil
	}
	sort.Slice(spans, func(i, j int) bool {
		if spans[i].Start != spans[j].Start {
			return spans[i].Start < spans[j].Start
		}
		return spans[i].End > spans[j].End
	})

	out := []Span{spans[0]}
	for _, s := range spans[1:] {
		last := &out[len(out)-1]
		if s.Start <= last.End {
			if s.End > last.End {
				last.End = s.End
			}
			continue
		}
		out = append(out, s)
	}
	return out
}

// Segment is a run of original text, marked when it lies inside a span.
type Segment struct {
	Text   string
	Marked bool
}

// Segments splits text into alternating plain and marked runs.
func Segments(text, query string) []Segment {
	spans := Spans(text, query)
	if len(spans) == 0 {
		if text == "" {
			return nil
		}
		return []Segment{{Text: text}}
	}

	var out []Segment
	prev := 0
	for _, s := range spans {
		if s.Start > prev {
			out = append(out, Segment{Text: text[prev:s.Start]})
		}
		out = append(out, Segment{Text: text[s.Start:s.End], Marked: true})
		prev = s.End
	}
	if prev < len(text) {
		out = append(out, Segment{Text: text[prev:]})
	}
	return out
}

// Highlight escapes text and wraps every query term occurrence in <mark>.
// Queries below MinQueryLength yield plain escaped text.
func Highlight(text, query string) string {
	var b strings.Builder
	for _, seg := range Segments(text, query) {
		if seg.Marked {
			b.WriteString(MarkOpen)
			b.WriteString(Escape(seg.Text))
			b.WriteString(MarkClose)
			continue
		}
		b.WriteString(Escape(seg.Text))
	}
	return b.String()
}
