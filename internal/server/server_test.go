package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/rcliao/game-backlog/internal/cover"
	"github.com/rcliao/game-backlog/internal/igdb"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubFinder struct {
	configured bool
	cover      igdb.Cover
	err        error
	titles     []string
}

func (f *stubFinder) Configured() bool { return f.configured }

func (f *stubFinder) CoverURL(_ context.Context, title string) (igdb.Cover, error) {
	f.titles = append(f.titles, title)
	return f.cover, f.err
}

func strPtr(s string) *string { return &s }

func get(t *testing.T, h http.Handler, target string) (int, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode %s: %v (%s)", target, err, rec.Body.String())
	}
	return rec.Code, body
}

func TestCoverURLSuccess(t *testing.T) {
	f := &stubFinder{configured: true, cover: igdb.Cover{ImageID: strPtr("co1"), URL: strPtr("https://img/co1.jpg")}}
	code, body := get(t, New(f, nil).Handler(), "/api/igdb/cover-url?title=%20Hades%20")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if body["title"] != "Hades" || body["imageId"] != "co1" || body["url"] != "https://img/co1.jpg" {
		t.Errorf("unexpected body %v", body)
	}
	if len(f.titles) != 1 || f.titles[0] != "Hades" {
		t.Errorf("expected trimmed title passed through, got %v", f.titles)
	}
}

func TestCoverURLNoMatch(t *testing.T) {
	f := &stubFinder{configured: true}
	code, body := get(t, New(f, nil).Handler(), "/api/igdb/cover-url?title=zzz")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if v, ok := body["url"]; !ok || v != nil {
		t.Errorf("expected url null, got %v", body)
	}
	if v, ok := body["imageId"]; !ok || v != nil {
		t.Errorf("expected imageId null, got %v", body)
	}
}

func TestCoverURLErrors(t *testing.T) {
	tests := []struct {
		name   string
		finder *stubFinder
		target string
		code   int
		msg    string
	}{
		{"missing title", &stubFinder{configured: true}, "/api/igdb/cover-url?title=%20%20", http.StatusBadRequest, "Missing title"},
		{"no title param", &stubFinder{configured: true}, "/api/igdb/cover-url", http.StatusBadRequest, "Missing title"},
		{"no credentials", &stubFinder{}, "/api/igdb/cover-url?title=x", http.StatusInternalServerError, "Server missing Twitch credentials"},
		{"upstream", &stubFinder{configured: true, err: &igdb.UpstreamError{Status: 429, Body: "slow down"}}, "/api/igdb/cover-url?title=x", http.StatusBadGateway, "IGDB error 429"},
		{"token failure", &stubFinder{configured: true, err: errors.New("Twitch token error: 400 bad")}, "/api/igdb/cover-url?title=x", http.StatusInternalServerError, "Twitch token error: 400 bad"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := get(t, New(tt.finder, nil).Handler(), tt.target)
			if code != tt.code {
				t.Errorf("expected %d, got %d", tt.code, code)
			}
			if body["error"] != tt.msg {
				t.Errorf("expected error %q, got %v", tt.msg, body)
			}
		})
	}
}

func TestUpstreamDetail(t *testing.T) {
	f := &stubFinder{configured: true, err: &igdb.UpstreamError{Status: 500, Body: "boom"}}
	_, body := get(t, New(f, nil).Handler(), "/api/igdb/cover-url?title=x")
	if body["detail"] != "boom" {
		t.Errorf("expected upstream body as detail, got %v", body)
	}
}

func TestHealth(t *testing.T) {
	code, body := get(t, New(&stubFinder{}, nil).Handler(), "/api/health")
	if code != http.StatusOK || body["status"] != "ok" {
		t.Errorf("unexpected health %d %v", code, body)
	}
}

func TestCORS(t *testing.T) {
	h := New(&stubFinder{configured: true}, []string{"http://app.test"}).Handler()

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "http://app.test")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://app.test" {
		t.Errorf("expected allowed origin echoed, got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "http://evil.test")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for disallowed origin, got %d", rec.Code)
	}
}

func TestEndToEndWithCoverClient(t *testing.T) {
	f := &stubFinder{configured: true, cover: igdb.Cover{ImageID: strPtr("co2"), URL: strPtr("https://img/co2.jpg")}}
	srv := httptest.NewServer(New(f, nil).Handler())
	defer srv.Close()

	got := cover.NewClient(srv.URL).Resolve(context.Background(), "Celeste & Friends")
	if got != "https://img/co2.jpg" {
		t.Errorf("unexpected url %q", got)
	}
	if len(f.titles) != 1 || f.titles[0] != "Celeste & Friends" {
		t.Errorf("title not round-tripped: %v", f.titles)
	}

	f.err = &igdb.UpstreamError{Status: 502, Body: ""}
	if got := cover.NewClient(srv.URL).Resolve(context.Background(), "x"); got != "" {
		t.Errorf("expected empty url on upstream failure, got %q", got)
	}
}
