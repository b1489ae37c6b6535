package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/bytetobeacon/beacon/internal/articles"
	"github.com/bytetobeacon/beacon/internal/content"
	"github.com/bytetobeacon/beacon/internal/forms"
	"github.com/bytetobeacon/beacon/internal/router"
	"github.com/bytetobeacon/beacon/internal/search"
)

type fakeSubmitter struct {
	mu    sync.Mutex
	calls []forms.Submission
	err   error
}

func (f *fakeSubmitter) Submit(ctx context.Context, s forms.Submission) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, s)
	if f.err != nil {
		return "", f.err
	}
	return "sent", nil
}

func testStore(t *testing.T) *articles.Store {
	t.Helper()
	s, err := articles.NewStore([]articles.Article{
		{ID: 1, Slug: "serverless", Title: "Understanding Serverless", Category: "DevOps"},
		{ID: 2, Slug: "css-grid", Title: "Modern CSS Grid", Category: "Web Development"},
		{ID: 3, Slug: "testing", Title: "Testing in Go", Category: "Testing"},
	})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return s
}

func newController(t *testing.T, sub forms.Submitter, opts Options) *Controller {
	t.Helper()
	c := New(articles.Ready(testStore(t)), content.MustLoad(), sub, opts)
	t.Cleanup(c.Close)
	return c
}

func TestStartAndNavigate(t *testing.T) {
	ctx := t.Context()
	c := newController(t, &fakeSubmitter{}, Options{})

	st, err := c.Start(ctx, router.ParseLocation("/article/css-grid"))
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if st.Route.Page != router.PageArticle || st.Route.Title() != "Modern CSS Grid - ByteToBeacon" {
		t.Errorf("route = %q title %q", st.Route.Page, st.Route.Title())
	}

	st, _ = c.Navigate(ctx, router.PageCareer)
	if st.Route.Page != router.PageCareer {
		t.Errorf("page = %q, want career", st.Route.Page)
	}
	st, _ = c.Back(ctx)
	if st.Route.Page != router.PageArticle {
		t.Errorf("after Back page = %q, want article-detail", st.Route.Page)
	}
	st, _ = c.Forward(ctx)
	if st.Route.Page != router.PageCareer {
		t.Errorf("after Forward page = %q, want career", st.Route.Page)
	}
}

func TestSelectUnknownArticleNotifies(t *testing.T) {
	c := newController(t, &fakeSubmitter{}, Options{})
	c.Start(t.Context(), router.ParseLocation("/"))

	st, err := c.SelectArticle(t.Context(), "nope")
	if !errors.Is(err, router.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if st.Route.Page != router.PageHome {
		t.Errorf("page = %q, want home unchanged", st.Route.Page)
	}
	if len(st.Notifications) != 1 || st.Notifications[0].Kind != NotifyError {
		t.Errorf("notifications = %+v", st.Notifications)
	}
}

func TestSearchDebounced(t *testing.T) {
	defer goleak.VerifyNone(t)

	c := New(articles.Ready(testStore(t)), content.MustLoad(), &fakeSubmitter{}, Options{Debounce: 10 * time.Millisecond})
	defer c.Close()

	applied := make(chan State, 8)
	cancel := c.Subscribe(func(st State) { applied <- st })
	defer cancel()

	for _, q := range []string{"s", "se", "ser", "serv"} {
		c.SetQuery(q)
	}
	if st := c.State(); st.Input != "serv" || st.Search.Query != "" {
		t.Errorf("before debounce: input %q query %q", st.Input, st.Search.Query)
	}

	select {
	case st := <-applied:
		if st.Search.Query != "serv" || len(st.Results) != 1 || st.Results[0].Slug != "serverless" {
			t.Errorf("applied query %q results %d", st.Search.Query, len(st.Results))
		}
		if st.Counter() != "1 of 3 articles" {
			t.Errorf("counter = %q", st.Counter())
		}
	case <-time.After(time.Second):
		t.Fatal("debounced query never applied")
	}

	select {
	case st := <-applied:
		t.Errorf("unexpected second apply with %q", st.Search.Query)
	case <-time.After(30 * time.Millisecond):
	}
}

func TestClearSearchDiscardsInFlightQuery(t *testing.T) {
	c := newController(t, &fakeSubmitter{}, Options{Debounce: time.Hour})

	c.SetQuery("serverless")
	c.mu.Lock()
	inFlight := typedQuery{query: "serverless", seq: c.inputSeq}
	c.mu.Unlock()

	// The timer already fired and is about to apply when the search is cleared.
	c.ClearSearch()
	c.applyQuery(inFlight)

	if st := c.State(); st.Search.Query != "" || st.Input != "" || len(st.Results) != 3 {
		t.Errorf("after clear: query %q input %q results %d", st.Search.Query, st.Input, len(st.Results))
	}

	c.SetQuery("css")
	c.mu.Lock()
	older := typedQuery{query: "css", seq: c.inputSeq}
	c.mu.Unlock()
	c.SetSearch(search.State{Query: "testing"})
	c.applyQuery(older)
	if got := c.State().Search.Query; got != "testing" {
		t.Errorf("stale debounced query overrode SetSearch: query %q", got)
	}

	c.SetQuery("grid")
	c.SetQuery("gri")
	c.mu.Lock()
	superseded := typedQuery{query: "grid", seq: c.inputSeq - 1}
	c.mu.Unlock()
	c.applyQuery(superseded)
	if got := c.State().Search.Query; got != "testing" {
		t.Errorf("superseded input applied: query %q", got)
	}
}

func TestSubmitQueryAndCategory(t *testing.T) {
	c := newController(t, &fakeSubmitter{}, Options{Debounce: time.Hour})

	st := c.SubmitQuery("css")
	if len(st.Results) != 1 {
		t.Errorf("results = %d, want 1", len(st.Results))
	}

	st = c.ClearSearch()
	if st.Search.Query != "" || len(st.Results) != 3 {
		t.Errorf("after clear: query %q results %d", st.Search.Query, len(st.Results))
	}

	st = c.SetCategory("Testing")
	if len(st.Results) != 1 || st.Results[0].Slug != "testing" {
		t.Errorf("category results = %v", st.Results)
	}
	st = c.SetCategory("")
	if st.Search.Category != search.AllCategories || len(st.Results) != 3 {
		t.Errorf("category %q results %d", st.Search.Category, len(st.Results))
	}
	if len(st.Categories) != 3 {
		t.Errorf("categories = %v", st.Categories)
	}
}

func TestSubmitNotifications(t *testing.T) {
	sub := &fakeSubmitter{}
	c := newController(t, sub, Options{})

	st, err := c.Submit(t.Context(), forms.KindContact)
	var verr *forms.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if len(sub.calls) != 0 {
		t.Error("validation failure must not reach the submitter")
	}
	if st.Notifications[len(st.Notifications)-1].Text != "Please fill in all required fields." {
		t.Errorf("notifications = %+v", st.Notifications)
	}

	c.SetFields(forms.KindContact, forms.Fields{"name": "Ada", "email": "ada@example.com", "subject": "Hi", "message": "Hello"})
	st, err = c.Submit(t.Context(), forms.KindContact)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	last := st.Notifications[len(st.Notifications)-1]
	if last.Kind != NotifySuccess || last.Text != "sent" {
		t.Errorf("last notification = %+v", last)
	}
	if len(st.ContactForm.Values) != 0 {
		t.Error("success should clear the form")
	}
}

func TestSubmitFailureKeepsValues(t *testing.T) {
	sub := &fakeSubmitter{err: &forms.SubmissionError{Status: 500, Message: "Failed to send email"}}
	c := newController(t, sub, Options{})
	c.SetFields(forms.KindContact, forms.Fields{"name": "Ada", "email": "ada@example.com", "subject": "Hi", "message": "Hello"})

	st, err := c.Submit(t.Context(), forms.KindContact)
	if !errors.Is(err, forms.ErrSubmissionTransport) {
		t.Fatalf("err = %v", err)
	}
	if st.ContactForm.Value("name") != "Ada" || st.ContactForm.Phase != forms.PhaseError {
		t.Errorf("form = %+v", st.ContactForm)
	}
	if got := st.Notifications[0].Text; got != "Failed to send: Failed to send email" {
		t.Errorf("notification = %q", got)
	}
}

func TestNotificationsExpireAndDismiss(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	c := newController(t, &fakeSubmitter{}, Options{Now: clock})

	a := c.Notify(NotifyInfo, "one")
	c.Notify(NotifyInfo, "two")
	if !c.Dismiss(a.ID) {
		t.Error("Dismiss should find the notification")
	}
	if c.Dismiss(a.ID) {
		t.Error("second Dismiss should report false")
	}
	if got := c.State().Notifications; len(got) != 1 || got[0].Text != "two" {
		t.Errorf("notifications = %+v", got)
	}

	now = now.Add(NotificationTTL)
	if got := c.State().Notifications; len(got) != 0 {
		t.Errorf("expired notifications still shown: %+v", got)
	}
}

func TestLoadFailure(t *testing.T) {
	pending := articles.NewPending()
	pending.Resolve(nil, errors.New("connection refused"))
	c := New(pending, content.MustLoad(), &fakeSubmitter{}, Options{})
	defer c.Close()

	st, err := c.Start(t.Context(), router.ParseLocation("/article/serverless"))
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if st.Route.Page != router.PageNotFound || st.LoadErr == nil || st.Loading {
		t.Errorf("state = page %q loadErr %v loading %v", st.Route.Page, st.LoadErr, st.Loading)
	}
	if len(st.Notifications) != 1 || st.Notifications[0].Text != LoadFailedMessage {
		t.Errorf("notifications = %+v", st.Notifications)
	}

	st, _ = c.Navigate(t.Context(), router.PageAbout)
	if st.Route.Page != router.PageAbout {
		t.Errorf("page = %q, want about", st.Route.Page)
	}
	if len(st.Notifications) != 1 {
		t.Errorf("load failure should be reported once, got %d", len(st.Notifications))
	}
}

func TestStateWhileLoading(t *testing.T) {
	c := New(articles.NewPending(), content.MustLoad(), &fakeSubmitter{}, Options{})
	defer c.Close()
	st := c.State()
	if !st.Loading || len(st.Articles) != 0 {
		t.Errorf("loading=%v articles=%d", st.Loading, len(st.Articles))
	}
}
