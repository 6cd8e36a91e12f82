package igdb

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type fakeIGDB struct {
	tokenCalls atomic.Int32
	gameCalls  atomic.Int32
	lastBody   atomic.Value
	lastAuth   atomic.Value
	gamesResp  string
	gamesCode  int
	expiresIn  int
}

func (f *fakeIGDB) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("token: expected POST, got %s", r.Method)
		}
		q := r.URL.Query()
		if q.Get("client_id") != "cid" || q.Get("client_secret") != "secret" || q.Get("grant_type") != "client_credentials" {
			t.Errorf("token: unexpected query %v", q)
		}
		f.tokenCalls.Add(1)
		w.Write([]byte(`{"access_token":"tok","expires_in":` + strconv.Itoa(f.expiresIn) + `,"token_type":"bearer"}`))
	})
	mux.HandleFunc("/v4/games", func(w http.ResponseWriter, r *http.Request) {
		f.gameCalls.Add(1)
		b, _ := io.ReadAll(r.Body)
		f.lastBody.Store(string(b))
		f.lastAuth.Store(r.Header.Get("Authorization") + "|" + r.Header.Get("Client-ID"))
		code := f.gamesCode
		if code == 0 {
			code = http.StatusOK
		}
		w.WriteHeader(code)
		w.Write([]byte(f.gamesResp))
	})
	return mux
}

func newTestClient(t *testing.T, f *fakeIGDB) *Client {
	t.Helper()
	srv := httptest.NewServer(f.handler(t))
	t.Cleanup(srv.Close)
	return NewClient("cid", "secret",
		WithTokenURL(srv.URL+"/oauth2/token"),
		WithGamesURL(srv.URL+"/v4/games"),
		WithLimiter(NewLimiter(1000)),
	)
}

func TestCoverURL(t *testing.T) {
	f := &fakeIGDB{expiresIn: 3600, gamesResp: `[{"id":1,"name":"The Last of Us Part I","cover":{"id":9,"image_id":"co5ziw"}}]`}
	c := newTestClient(t, f)

	got, err := c.CoverURL(context.Background(), `The "Last" of Us Part I`)
	if err != nil {
		t.Fatalf("cover: %v", err)
	}
	if got.ImageID == nil || *got.ImageID != "co5ziw" {
		t.Errorf("unexpected image id %v", got.ImageID)
	}
	if got.URL == nil || *got.URL != "https://images.igdb.com/igdb/image/upload/t_cover_big/co5ziw.jpg" {
		t.Errorf("unexpected url %v", got.URL)
	}
	wantBody := `fields name,cover.image_id; search "The \"Last\" of Us Part I"; limit 1;`
	if body := f.lastBody.Load(); body != wantBody {
		t.Errorf("expected body %q, got %q", wantBody, body)
	}
	if auth := f.lastAuth.Load(); auth != "Bearer tok|cid" {
		t.Errorf("unexpected auth headers %q", auth)
	}
}

func TestCoverURLNoMatch(t *testing.T) {
	for _, resp := range []string{`[]`, `[{"id":1,"name":"No Cover"}]`} {
		f := &fakeIGDB{expiresIn: 3600, gamesResp: resp}
		got, err := newTestClient(t, f).CoverURL(context.Background(), "x")
		if err != nil {
			t.Fatalf("%s: %v", resp, err)
		}
		if got.URL != nil || got.ImageID != nil {
			t.Errorf("%s: expected empty cover, got %+v", resp, got)
		}
	}
}

func TestCoverURLUpstreamError(t *testing.T) {
	f := &fakeIGDB{expiresIn: 3600, gamesCode: http.StatusUnauthorized, gamesResp: `{"message":"denied"}`}
	_, err := newTestClient(t, f).CoverURL(context.Background(), "x")
	var ue *UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if ue.Status != http.StatusUnauthorized || ue.Body != `{"message":"denied"}` {
		t.Errorf("unexpected upstream error %+v", ue)
	}
	if ue.Error() != "IGDB error 401" {
		t.Errorf("unexpected message %q", ue.Error())
	}
}

func TestMissingCredentials(t *testing.T) {
	c := NewClient("", "")
	if c.Configured() {
		t.Error("expected unconfigured client")
	}
	if _, err := c.CoverURL(context.Background(), "x"); !errors.Is(err, ErrMissingCredentials) {
		t.Errorf("expected ErrMissingCredentials, got %v", err)
	}
}

func TestTokenCachedUntilMargin(t *testing.T) {
	f := &fakeIGDB{expiresIn: 120}
	srv := httptest.NewServer(f.handler(t))
	defer srv.Close()

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	ts := NewTokenSource("cid", "secret", srv.URL+"/oauth2/token", nil)
	ts.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if tok, err := ts.Token(ctx); err != nil || tok != "tok" {
			t.Fatalf("token: %q %v", tok, err)
		}
	}
	if n := f.tokenCalls.Load(); n != 1 {
		t.Fatalf("expected 1 token request, got %d", n)
	}

	// 120s lifetime minus 60s margin: still valid at 59s, stale at 60s.
	now = now.Add(59 * time.Second)
	ts.Token(ctx)
	if n := f.tokenCalls.Load(); n != 1 {
		t.Errorf("expected cached token at 59s, got %d requests", n)
	}
	now = now.Add(time.Second)
	ts.Token(ctx)
	if n := f.tokenCalls.Load(); n != 2 {
		t.Errorf("expected refresh at 60s, got %d requests", n)
	}
}

func TestTokenConcurrentRefresh(t *testing.T) {
	f := &fakeIGDB{expiresIn: 3600}
	block := make(chan struct{})
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		<-block
		f.tokenCalls.Add(1)
		w.Write([]byte(`{"access_token":"tok","expires_in":3600}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	ts := NewTokenSource("cid", "secret", srv.URL+"/oauth2/token", nil)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if tok, err := ts.Token(context.Background()); err != nil || tok != "tok" {
				t.Errorf("token: %q %v", tok, err)
			}
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(block)
	wg.Wait()

	if n := f.tokenCalls.Load(); n != 1 {
		t.Errorf("expected a single shared refresh, got %d", n)
	}
}

func TestTokenRefreshSurvivesCancelledCaller(t *testing.T) {
	started := make(chan struct{})
	block := make(chan struct{})
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			close(started)
		}
		<-block
		w.Write([]byte(`{"access_token":"tok","expires_in":3600}`))
	}))
	defer srv.Close()
	defer func() {
		select {
		case <-block:
		default:
			close(block)
		}
	}()

	ts := NewTokenSource("cid", "secret", srv.URL, nil)

	ctx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := ts.Token(ctx)
		firstErr <- err
	}()
	<-started

	type result struct {
		tok string
		err error
	}
	second := make(chan result, 1)
	go func() {
		tok, err := ts.Token(context.Background())
		second <- result{tok, err}
	}()
	time.Sleep(50 * time.Millisecond)

	cancel()
	if err := <-firstErr; !errors.Is(err, context.Canceled) {
		t.Fatalf("cancelled caller: expected context.Canceled, got %v", err)
	}

	close(block)
	res := <-second
	if res.err != nil || res.tok != "tok" {
		t.Fatalf("waiting caller: %q %v", res.tok, res.err)
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("expected one shared refresh, got %d", n)
	}
}

func TestTokenError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid client", http.StatusBadRequest)
	}))
	defer srv.Close()

	ts := NewTokenSource("cid", "secret", srv.URL, nil)
	if _, err := ts.Token(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
