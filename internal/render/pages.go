package render

import (
	"errors"
	"net/url"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/bytetobeacon/beacon/internal/app"
	"github.com/bytetobeacon/beacon/internal/content"
	"github.com/bytetobeacon/beacon/internal/forms"
	"github.com/bytetobeacon/beacon/internal/router"
	"github.com/bytetobeacon/beacon/internal/search"
)

// Main renders the main region for the current route.
func Main(st app.State) *html.Node {
	site := st.Site
	if site == nil {
		site = &content.Site{}
	}
	switch st.Route.Page {
	case router.PageAbout:
		return About(site.About)
	case router.PageContact:
		return Contact(site.Contact, st.ContactForm)
	case router.PageCareer:
		return Career(site.Career)
	case router.PageArticle:
		if st.Route.Article != nil {
			return ArticleDetail(*st.Route.Article)
		}
		return NotFound()
	case router.PageNotFound:
		return NotFound()
	default:
		return Home(st)
	}
}

// Home is the landing page: hero, search controls, the article grid and the
// article submission form.
func Home(st app.State) *html.Node {
	var home content.Home
	var guidelines string
	if st.Site != nil {
		home = st.Site.Home
		guidelines = st.Site.GuidelinesHTML
	}
	return elem(atom.Div, "home-page",
		elem(atom.Section, "hero-section",
			elem(atom.Div, "hero-content",
				textElem(atom.H1, "", home.Heading),
				textElem(atom.P, "hero-subtitle", home.Subtitle),
			),
		),
		SearchBar(st),
		elem(atom.Section, "articles-section",
			elem(atom.Div, "section-header",
				textElem(atom.H2, "", "Latest Articles"),
				elem(atom.Div, "article-stats",
					withAttrs(textElem(atom.Span, "article-count", st.Counter()), "id", "articleCount"),
				),
			),
			ArticleGrid(st),
		),
		ArticleSubmission(st.ArticleForm, guidelines),
	)
}

// SearchBar is the query input and category filter buttons.
func SearchBar(st app.State) *html.Node {
	input := withAttrs(elem(atom.Input, "search-input"),
		"type", "search", "id", "searchInput", "name", "q",
		"placeholder", "Search articles...", "value", st.Input, "autocomplete", "off")
	form := withAttrs(elem(atom.Form, "search-form",
		input,
		withAttrs(elem(atom.Input, ""), "type", "hidden", "name", "category", "value", st.Search.Category),
		withAttrs(textElem(atom.Button, "btn btn-primary", "Search"), "type", "submit"),
	), "method", "get", "action", "/", "role", "search")

	filters := elem(atom.Div, "category-filters")
	cats := append([]string{search.AllCategories}, st.Categories...)
	for _, cat := range cats {
		class := "category-btn"
		if cat == st.Search.Category {
			class += " active"
		}
		label := cat
		if cat == search.AllCategories {
			label = "All"
		}
		filters.AppendChild(withAttrs(link(categoryHref(st.Search.Query, cat), class, text(label)), "data-category", cat))
	}
	return elem(atom.Section, "search-section", form, filters)
}

func categoryHref(query, category string) string {
	v := url.Values{}
	if query != "" {
		v.Set("q", query)
	}
	if category != "" && category != search.AllCategories {
		v.Set("category", category)
	}
	if len(v) == 0 {
		return "/"
	}
	return "/?" + v.Encode()
}

// ArticleGrid is the list of article cards, or the message that replaces it
// while loading, after a failed load, or when nothing matches.
func ArticleGrid(st app.State) *html.Node {
	grid := withAttrs(elem(atom.Div, "articles-grid"), "id", "articlesGrid")
	switch {
	case st.Loading:
		grid.AppendChild(emptyState("no-articles", "Loading articles", "Articles are being loaded. Please check back soon."))
	case st.LoadErr != nil:
		grid.AppendChild(emptyState("no-articles", "Articles unavailable", app.LoadFailedMessage))
	case len(st.Articles) == 0:
		grid.AppendChild(emptyState("no-articles", "No articles available", "Articles are being loaded. Please check back soon."))
	case len(st.Results) == 0:
		div := emptyState("no-results", "No articles found", noResultsText(st.Search))
		div.AppendChild(link("/", "btn btn-primary", text("Show All Articles")))
		grid.AppendChild(div)
	default:
		q := st.Search.HighlightQuery()
		for _, a := range st.Results {
			grid.AppendChild(ArticleCard(a, q))
		}
	}
	return grid
}

func noResultsText(s search.State) string {
	if s.Active() {
		return `No articles match your search for "` + s.Query + `". Try different keywords or browse all articles.`
	}
	return "No articles in this category yet."
}

func emptyState(class, heading, msg string) *html.Node {
	return elem(atom.Div, class, textElem(atom.H3, "", heading), textElem(atom.P, "", msg))
}

func pageHeader(title, subtitle string) *html.Node {
	return elem(atom.Div, "page-header",
		textElem(atom.H1, "", title),
		textElem(atom.P, "page-subtitle", subtitle),
	)
}

func section(heading string, children ...*html.Node) *html.Node {
	s := elem(atom.Section, "content-section")
	if heading != "" {
		s.AppendChild(textElem(atom.H2, "", heading))
	}
	appendAll(s, children...)
	return s
}

func list(class string, items []string) *html.Node {
	ul := elem(atom.Ul, class)
	for _, it := range items {
		ul.AppendChild(textElem(atom.Li, "", it))
	}
	return ul
}

// About renders the mission, values and code of conduct.
func About(a content.About) *html.Node {
	conduct := elem(atom.Div, "code-of-conduct")
	for _, c := range a.CodeOfConduct {
		conduct.AppendChild(elem(atom.Div, "conduct-item",
			textElem(atom.H3, "", c.Title),
			textElem(atom.P, "", c.Description),
		))
	}
	return elem(atom.Div, "page-content",
		pageHeader("About ByteToBeacon", a.Subtitle),
		section("Our Mission", textElem(atom.P, "", a.Mission)),
		section("Our Vision", textElem(atom.P, "", a.Vision)),
		section("Our Values", list("values-list", a.Values)),
		section("Community Code of Conduct", conduct),
	)
}

func detail(label, value string) *html.Node {
	return elem(atom.P, "", textElem(atom.Strong, "", label+":"), text(" "+value))
}

// Contact renders the contact details and the contact form.
func Contact(c content.Contact, form forms.Snapshot) *html.Node {
	return elem(atom.Div, "page-content",
		pageHeader("Contact Us", c.Description),
		elem(atom.Div, "contact-content",
			elem(atom.Div, "contact-info",
				textElem(atom.H2, "", "Get in Touch"),
				elem(atom.Div, "contact-details",
					detail("Email", c.Email),
					detail("Response Time", c.ResponseTime),
					detail("Office Hours", c.OfficeHours),
				),
			),
			elem(atom.Div, "contact-form-section",
				textElem(atom.H2, "", "Send us a Message"),
				ContactForm(form),
			),
		),
	)
}

// Career renders the careers page.
func Career(c content.Career) *html.Node {
	return elem(atom.Div, "page-content",
		pageHeader(c.Headline, c.Message),
		section("",
			elem(atom.Div, "career-status",
				textElem(atom.H2, "status-badge", c.Status),
				textElem(atom.P, "", c.Note),
			),
		),
		section("Future Opportunities",
			textElem(atom.P, "", "As we grow, we may have openings for:"),
			list("opportunities-list", c.FutureOpportunities),
		),
		section("Stay Connected",
			textElem(atom.P, "", c.InquiryMessage),
			link("/contact", "btn btn-primary", text("Contact Us")),
		),
	)
}

// NotFound is the 404 page.
func NotFound() *html.Node {
	return elem(atom.Div, "error-page",
		elem(atom.Div, "error-content",
			textElem(atom.H1, "", "404 - Page Not Found"),
			textElem(atom.P, "", "The page you're looking for doesn't exist or has been moved."),
			link("/", "btn btn-primary", text("Go Home")),
		),
	)
}

// ErrorMessage is the inline text for a form error.
func ErrorMessage(err error) string {
	var verr *forms.ValidationError
	var serr *forms.SubmissionError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &verr):
		return verr.Message()
	case errors.As(err, &serr):
		return serr.UserMessage()
	default:
		return err.Error()
	}
}
