// Package app owns the site's application state. A Controller applies user
// events (navigation, search input, form edits and submits) to a single
// State that the renderer draws.
package app

import (
	"time"

	"github.com/bytetobeacon/beacon/internal/articles"
	"github.com/bytetobeacon/beacon/internal/content"
	"github.com/bytetobeacon/beacon/internal/forms"
	"github.com/bytetobeacon/beacon/internal/router"
	"github.com/bytetobeacon/beacon/internal/search"
)

// NotificationTTL is how long a notification stays visible undismissed.
const NotificationTTL = 5 * time.Second

// LoadFailedMessage is shown once when the article load fails.
const LoadFailedMessage = "Failed to load articles. Please check your connection and refresh the page."

// NotificationKind selects a notification's styling.
type NotificationKind string

const (
	NotifyInfo    NotificationKind = "info"
	NotifySuccess NotificationKind = "success"
	NotifyError   NotificationKind = "error"
)

// Notification is a transient, dismissable message.
type Notification struct {
	ID      string           `json:"id"`
	Kind    NotificationKind `json:"kind"`
	Text    string           `json:"text"`
	Expires time.Time        `json:"-"`
}

// State is a snapshot of everything the renderer needs.
type State struct {
	Route router.Route
	// Input is the search box text; Search is the last applied query.
	Input  string
	Search search.State

	// Articles is the full store in order; Results is the filtered view.
	Articles   []articles.Article
	Results    []articles.Article
	Categories []string
	// Loading is true until the article load completes.
	Loading bool
	LoadErr error

	Site          *content.Site
	ArticleForm   forms.Snapshot
	ContactForm   forms.Snapshot
	Notifications []Notification
}

// Counter is the "N of M articles" label above the list.
func (s State) Counter() string {
	return search.Counter(len(s.Results), len(s.Articles))
}

// Form returns the snapshot of the form of kind k.
func (s State) Form(k forms.Kind) forms.Snapshot {
	if k == forms.KindArticle {
		return s.ArticleForm
	}
	return s.ContactForm
}
