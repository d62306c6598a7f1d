package webshell

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func staticDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>fairdesk</html>"), 0o644); err != nil {
		t.Fatalf("write index: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "app.js"), []byte("console.log('app')"), 0o644); err != nil {
		t.Fatalf("write asset: %v", err)
	}
	return dir
}

func newTestServer(t *testing.T, apiURL string) *Server {
	t.Helper()
	srv, err := New(Config{Port: 0, StaticDir: staticDir(t), APIBaseURL: apiURL}, discardLogger())
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return srv
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, "http://localhost:1")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("unexpected health response %d %q", rec.Code, rec.Body.String())
	}
}

func TestProxyStripsPrefixAndPassesThrough(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/exhibitions/1/events" {
			t.Fatalf("unexpected upstream path %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer tok" {
			t.Fatalf("authorization header must pass through, got %q", auth)
		}
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method %s", r.Method)
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != `{"title":"Keynote"}` {
			t.Fatalf("unexpected body %q", body)
		}
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"id":5}`)
	}))
	defer upstream.Close()

	srv := newTestServer(t, upstream.URL)
	req := httptest.NewRequest(http.MethodPost, "/api/exhibitions/1/events", strings.NewReader(`{"title":"Keynote"}`))
	req.Header.Set("Authorization", "Bearer tok")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Body.String() != `{"id":5}` {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
}

func TestProxyUpstreamDownIs502(t *testing.T) {
	srv := newTestServer(t, "http://localhost:1")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/exhibitions", nil))
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 when upstream is down, got %d", rec.Code)
	}
}

func TestStaticAssetServed(t *testing.T) {
	srv := newTestServer(t, "http://localhost:1")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/app.js", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "console.log") {
		t.Fatalf("unexpected asset response %d %q", rec.Code, rec.Body.String())
	}
}

func TestSPAFallbackServesIndex(t *testing.T) {
	srv := newTestServer(t, "http://localhost:1")
	for _, p := range []string{"/", "/exhibitions/12/schedule", "/login"} {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, p, nil))
		if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "fairdesk") {
			t.Fatalf("expected index fallback for %s, got %d %q", p, rec.Code, rec.Body.String())
		}
	}
}

func TestLoadConfigDefaultsAndEnvOverride(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != 3000 {
		t.Fatalf("default port should be 3000, got %d", cfg.Port)
	}

	t.Setenv("PORT", "8088")
	t.Setenv("API_URL", "http://api.internal:9000")
	cfg, err = Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != 8088 || cfg.APIBaseURL != "http://api.internal:9000" {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
}

func TestLoadConfigFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "webshell.yaml")
	body := "port: 4100\nstatic_dir: /srv/admin\napi_url: http://api:9000\nlog_level: debug\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != 4100 || cfg.StaticDir != "/srv/admin" || cfg.LogLevel != "debug" {
		t.Fatalf("yaml values not applied: %+v", cfg)
	}
}
