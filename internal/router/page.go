// Package router maps locations to page views and keeps the navigation
// history of a session.
package router

// SiteName is appended to every document title.
const SiteName = "ByteToBeacon"

// Page is one of the fixed set of views.
type Page string

const (
	PageHome     Page = "home"
	PageAbout    Page = "about"
	PageContact  Page = "contact"
	PageCareer   Page = "career"
	PageArticle  Page = "article-detail"
	PageNotFound Page = "not-found"
)

// NavPages are the pages reachable from the navigation bar, in display order.
var NavPages = []Page{PageHome, PageAbout, PageContact, PageCareer}

// routeTable maps a path without its leading slash to a page.
var routeTable = map[string]Page{
	"":        PageHome,
	"home":    PageHome,
	"about":   PageAbout,
	"contact": PageContact,
	"career":  PageCareer,
}

var pagePaths = map[Page]string{
	PageHome:    "/",
	PageAbout:   "/about",
	PageContact: "/contact",
	PageCareer:  "/career",
}

var pageTitles = map[Page]string{
	PageHome:     SiteName + " - Bridging Technology and Innovation",
	PageAbout:    "About - " + SiteName,
	PageContact:  "Contact - " + SiteName,
	PageCareer:   "Careers - " + SiteName,
	PageNotFound: "Page Not Found - " + SiteName,
}

var navLabels = map[Page]string{
	PageHome:    "Home",
	PageAbout:   "About",
	PageContact: "Contact",
	PageCareer:  "Career",
}

// Path returns the navigation path of a static page, "/" for unknown pages.
func (p Page) Path() string {
	if path, ok := pagePaths[p]; ok {
		return path
	}
	return "/"
}

// Title returns the static document title of the page. Article pages take
// their title from the article instead; see ArticleTitle.
func (p Page) Title() string {
	if t, ok := pageTitles[p]; ok {
		return t
	}
	return pageTitles[PageHome]
}

// Label is the navigation link text of the page.
func (p Page) Label() string {
	return navLabels[p]
}

// Valid reports whether p is one of the defined pages.
func (p Page) Valid() bool {
	switch p {
	case PageHome, PageAbout, PageContact, PageCareer, PageArticle, PageNotFound:
		return true
	}
	return false
}

// ArticleTitle is the document title of an article page.
func ArticleTitle(title string) string {
	return title + " - " + SiteName
}
