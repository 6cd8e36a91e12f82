// Package igdb looks up cover art in the IGDB catalog using Twitch
// client-credentials tokens.
package igdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultTokenURL is the Twitch OAuth token endpoint.
const DefaultTokenURL = "https://id.twitch.tv/oauth2/token"

// expiryMargin is subtracted from expires_in so a token is never used right
// up to its expiry.
const expiryMargin = 60 * time.Second

// refreshTimeout bounds a shared refresh, which outlives any single caller.
const refreshTimeout = 15 * time.Second

// ErrMissingCredentials is returned when no client id or secret is configured.
var ErrMissingCredentials = errors.New("Server missing Twitch credentials")

// TokenSource fetches and caches one shared app access token.
type TokenSource struct {
	clientID     string
	clientSecret string
	tokenURL     string
	client       *http.Client
	now          func() time.Time

	mu      sync.Mutex
	token   string
	expires time.Time
	group   singleflight.Group
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// NewTokenSource creates a token source for the given Twitch application.
func NewTokenSource(clientID, clientSecret, tokenURL string, client *http.Client) *TokenSource {
	if tokenURL == "" {
		tokenURL = DefaultTokenURL
	}
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &TokenSource{
		clientID:     clientID,
		clientSecret: clientSecret,
		tokenURL:     tokenURL,
		client:       client,
		now:          time.Now,
	}
}

// Token returns the cached token, refreshing it when expired. Concurrent
// callers share a single refresh; a caller whose ctx ends stops waiting
// without cancelling the refresh for the others.
func (ts *TokenSource) Token(ctx context.Context) (string, error) {
	if ts.clientID == "" || ts.clientSecret == "" {
		return "", ErrMissingCredentials
	}

	ts.mu.Lock()
	if ts.token != "" && ts.now().Before(ts.expires) {
		tok := ts.token
		ts.mu.Unlock()
		return tok, nil
	}
	ts.mu.Unlock()

	ch := ts.group.DoChan("token", func() (any, error) {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), refreshTimeout)
		defer cancel()
		return ts.refresh(rctx)
	})
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

func (ts *TokenSource) refresh(ctx context.Context) (string, error) {
	issued := ts.now()

	q := url.Values{}
	q.Set("client_id", ts.clientID)
	q.Set("client_secret", ts.clientSecret)
	q.Set("grant_type", "client_credentials")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ts.tokenURL+"?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}

	resp, err := ts.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("twitch token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("Twitch token error: %d %s", resp.StatusCode, string(b))
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("decode twitch token: %w", err)
	}
	if tr.AccessToken == "" {
		return "", errors.New("Twitch token error: empty access_token")
	}

	expires := issued.Add(time.Duration(tr.ExpiresIn)*time.Second - expiryMargin)
	ts.mu.Lock()
	ts.token = tr.AccessToken
	ts.expires = expires
	ts.mu.Unlock()

	slog.Info("twitch token refreshed", "expires_at", expires.Format(time.RFC3339))
	return tr.AccessToken, nil
}
