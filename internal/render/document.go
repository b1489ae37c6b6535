package render

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/bytetobeacon/beacon/internal/app"
	"github.com/bytetobeacon/beacon/internal/router"
)

// Assets are the stylesheet and script the document links to.
type Assets struct {
	Stylesheet string
	Script     string
}

// DefaultAssets are served by the site package.
var DefaultAssets = Assets{Stylesheet: "/static/style.css", Script: "/static/app.js"}

// Document renders a complete page for st.
func Document(st app.State, assets Assets) *html.Node {
	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	head := elem(atom.Head, "",
		withAttrs(elem(atom.Meta, ""), "charset", "utf-8"),
		withAttrs(elem(atom.Meta, ""), "name", "viewport", "content", "width=device-width, initial-scale=1"),
		textElem(atom.Title, "", st.Route.Title()),
	)
	if assets.Stylesheet != "" {
		head.AppendChild(withAttrs(elem(atom.Link, ""), "rel", "stylesheet", "href", assets.Stylesheet))
	}

	body := elem(atom.Body, "",
		Header(st.Route),
		withAttrs(elem(atom.Main, "main-content", Main(st)), "id", "mainContent"),
		Notifications(st.Notifications),
		Footer(),
	)
	if assets.Script != "" {
		body.AppendChild(withAttrs(elem(atom.Script, ""), "src", assets.Script, "defer", ""))
	}
	setAttr(body, "data-page", string(st.Route.Page))

	doc.AppendChild(withAttrs(elem(atom.Html, "", head, body), "lang", "en"))
	return doc
}

// Header is the site header with the navigation bar. The link of the active
// page carries the "active" class.
func Header(route router.Route) *html.Node {
	ul := elem(atom.Ul, "nav-menu")
	active := route.ActiveNav()
	for _, p := range router.NavPages {
		class := "nav-link"
		if p == active {
			class += " active"
		}
		ul.AppendChild(elem(atom.Li, "nav-item", withAttrs(link(p.Path(), class, text(p.Label())), "data-page", string(p))))
	}
	return elem(atom.Header, "header",
		elem(atom.Nav, "navbar",
			link("/", "nav-brand", text(router.SiteName)),
			ul,
		),
	)
}

// Notifications renders the visible notifications, newest last.
func Notifications(notes []app.Notification) *html.Node {
	div := withAttrs(elem(atom.Div, "notifications"), "id", "notifications", "aria-live", "polite")
	for _, n := range notes {
		div.AppendChild(withAttrs(
			textElem(atom.Div, "notification notification-"+string(n.Kind), n.Text),
			"data-id", n.ID, "role", "status"))
	}
	return div
}

// Footer is the site footer.
func Footer() *html.Node {
	return elem(atom.Footer, "footer",
		textElem(atom.P, "", "© "+router.SiteName+". Bridging Technology and Innovation."),
	)
}
