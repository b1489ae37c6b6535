package cmd

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/bytetobeacon/beacon/internal/config"
)

func TestParseFieldArgs(t *testing.T) {
	fields, err := parseFieldArgs([]string{"name=Ada", "subject=a=b", " email =ada@example.com"})
	if err != nil {
		t.Fatalf("parseFieldArgs: %v", err)
	}
	want := map[string]string{"name": "Ada", "subject": "a=b", "email": "ada@example.com"}
	for k, v := range want {
		if fields[k] != v {
			t.Errorf("fields[%q] = %q, want %q", k, fields[k], v)
		}
	}

	for _, bad := range []string{"novalue", "=x"} {
		if _, err := parseFieldArgs([]string{bad}); err == nil {
			t.Errorf("parseFieldArgs(%q) should fail", bad)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"collapse   inner\nspace", 40, "collapse inner space"},
		{"abcdefghij", 8, "abcde..."},
		{"héllo wörld", 8, "héllo..."},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestOpenSubmissionLog(t *testing.T) {
	database, store, err := openSubmissionLog("")
	if err != nil || database != nil || store != nil {
		t.Fatalf("empty path should disable the log, got %v %v %v", database, store, err)
	}

	path := filepath.Join(t.TempDir(), "nested", "submissions.db")
	database, store, err = openSubmissionLog(path)
	if err != nil {
		t.Fatalf("openSubmissionLog: %v", err)
	}
	defer database.Close()
	if store == nil {
		t.Fatal("expected a store")
	}
}

func relayTestConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Relay.DBPath = filepath.Join(t.TempDir(), "submissions.db")
	return cfg
}

func serveRelay(t *testing.T, cfg *config.Config, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	srv, closeLog, err := newRelayServer(cfg)
	if err != nil {
		t.Fatalf("newRelayServer: %v", err)
	}
	defer closeLog()
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func TestRelayServerHidesSubmissionLog(t *testing.T) {
	cfg := relayTestConfig(t)

	for _, path := range []string{"/api/submissions", "/api/submissions/stats", "/api/submissions/some-id"} {
		req := httptest.NewRequest("GET", path, nil)
		req.Header.Set("Origin", "https://elsewhere.example")
		if w := serveRelay(t, cfg, req); w.Code != http.StatusNotFound {
			t.Errorf("GET %s: status %d, want 404", path, w.Code)
		}
	}

	req := httptest.NewRequest("OPTIONS", "/api/send-email", nil)
	req.Header.Set("Origin", "https://elsewhere.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	if w := serveRelay(t, cfg, req); w.Code != http.StatusOK && w.Code != http.StatusNoContent {
		t.Errorf("relay preflight: status %d", w.Code)
	}
}

func TestRelayServerSubmissionLogRequiresPassword(t *testing.T) {
	cfg := relayTestConfig(t)
	cfg.Relay.AdminPassword = "s3cret"

	req := httptest.NewRequest("GET", "/api/submissions", nil)
	if w := serveRelay(t, cfg, req); w.Code != http.StatusUnauthorized {
		t.Errorf("no credentials: status %d, want 401", w.Code)
	}

	req = httptest.NewRequest("GET", "/api/submissions", nil)
	req.SetBasicAuth(adminUser, "wrong")
	if w := serveRelay(t, cfg, req); w.Code != http.StatusUnauthorized {
		t.Errorf("wrong password: status %d, want 401", w.Code)
	}

	req = httptest.NewRequest("GET", "/api/submissions", nil)
	req.SetBasicAuth(adminUser, "s3cret")
	if w := serveRelay(t, cfg, req); w.Code != http.StatusOK {
		t.Errorf("with credentials: status %d, want 200", w.Code)
	}
}
