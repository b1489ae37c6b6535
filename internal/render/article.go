package render

import (
	"strconv"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/bytetobeacon/beacon/internal/articles"
	"github.com/bytetobeacon/beacon/internal/search"
)

// FormatArticleContent renders article content as one paragraph element per
// blank-line separated block. Text is escaped when the tree is rendered.
func FormatArticleContent(content string) []*html.Node {
	paras := articles.Paragraphs(content)
	nodes := make([]*html.Node, 0, len(paras))
	for _, p := range paras {
		nodes = append(nodes, textElem(atom.P, "", p))
	}
	return nodes
}

// Highlighted renders text with every match of query wrapped in <mark>.
func Highlighted(s, query string) []*html.Node {
	segs := search.Segments(s, query)
	nodes := make([]*html.Node, 0, len(segs))
	for _, seg := range segs {
		if seg.Marked {
			nodes = append(nodes, textElem(atom.Mark, "", seg.Text))
		} else {
			nodes = append(nodes, text(seg.Text))
		}
	}
	return nodes
}

func tags(list []string) *html.Node {
	div := elem(atom.Div, "article-tags")
	for _, t := range list {
		div.AppendChild(textElem(atom.Span, "tag", t))
	}
	return div
}

// ArticleCard is the summary card shown in the article grid. Title, author
// and excerpt are highlighted with query.
func ArticleCard(a articles.Article, query string) *html.Node {
	title := link(a.Path(), "article-title-link", Highlighted(a.Title, query)...)
	author := elem(atom.Div, "article-author", text("By "))
	appendAll(author, Highlighted(a.Author, query)...)

	card := elem(atom.Article, "article-card",
		elem(atom.Div, "article-content",
			elem(atom.Div, "article-meta",
				textElem(atom.Span, "article-category", a.Category),
				textElem(atom.Span, "article-date", a.Date.Long()),
			),
			elem(atom.H3, "article-title", title),
			author,
			elem(atom.P, "article-excerpt", Highlighted(a.Excerpt, query)...),
			tags(a.Tags),
			elem(atom.Div, "article-footer",
				textElem(atom.Span, "read-time", a.ReadTime),
			),
		),
	)
	return withAttrs(card, "id", a.Fragment()[1:], "data-article-id", strconv.Itoa(a.ID))
}

// ArticleDetail is the full article page.
func ArticleDetail(a articles.Article) *html.Node {
	body := elem(atom.Div, "article-content", FormatArticleContent(a.Content)...)
	return elem(atom.Div, "article-page",
		elem(atom.Nav, "article-nav", link("/", "back-link", text("← Back to Articles"))),
		withAttrs(elem(atom.Article, "article-full",
			elem(atom.Header, "article-header",
				elem(atom.Div, "article-meta",
					textElem(atom.Span, "article-category", a.Category),
					textElem(atom.Span, "article-date", a.Date.Long()),
					textElem(atom.Span, "read-time", a.ReadTime),
				),
				textElem(atom.H1, "article-title", a.Title),
				elem(atom.Div, "article-author-info",
					textElem(atom.Span, "author-name", "By "+a.Author),
				),
				tags(a.Tags),
			),
			body,
			elem(atom.Footer, "article-footer",
				elem(atom.Div, "article-actions", shareLink(a)),
			),
		), "data-article-id", strconv.Itoa(a.ID)),
	)
}

// shareLink points at the article's canonical path. The script upgrades it
// to the native share sheet or a copy to the clipboard.
func shareLink(a articles.Article) *html.Node {
	return withAttrs(link(a.Path(), "btn btn-secondary share-btn", text("Share Article")),
		"data-share-title", a.Title)
}
