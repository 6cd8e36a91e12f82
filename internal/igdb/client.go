package igdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// DefaultGamesURL is the IGDB games endpoint.
const DefaultGamesURL = "https://api.igdb.com/v4/games"

// CoverURLTemplate composes a cover image URL from an IGDB image id.
const CoverURLTemplate = "https://images.igdb.com/igdb/image/upload/t_cover_big/%s.jpg"

// UpstreamError is a non-success response from IGDB.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("IGDB error %d", e.Status)
}

// Cover is the lookup result. Both fields are nil when nothing matched.
type Cover struct {
	ImageID *string
	URL     *string
}

// NewLimiter returns a limiter for the IGDB request budget (4 req/s by default).
func NewLimiter(perSecond float64) *rate.Limiter {
	if perSecond <= 0 {
		perSecond = 4
	}
	burst := int(perSecond)
	if burst < 1 {
		burst = 1
	}
	slog.Debug("created IGDB rate limiter", "rate", perSecond, "burst", burst)
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}

// Client searches IGDB for a title's cover.
type Client struct {
	clientID string
	tokens   *TokenSource
	gamesURL string
	http     *http.Client
	limiter  *rate.Limiter
}

// ClientOptions configures the IGDB client.
type ClientOptions struct {
	tokenURL string
	gamesURL string
	http     *http.Client
	limiter  *rate.Limiter
}

// ClientOption applies a configuration to ClientOptions.
type ClientOption func(*ClientOptions)

// WithTokenURL overrides the Twitch token endpoint.
func WithTokenURL(u string) ClientOption {
	return func(o *ClientOptions) { o.tokenURL = u }
}

// WithGamesURL overrides the IGDB games endpoint.
func WithGamesURL(u string) ClientOption {
	return func(o *ClientOptions) { o.gamesURL = u }
}

// WithHTTPClient sets the HTTP client used for both token and search calls.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(o *ClientOptions) { o.http = c }
}

// WithLimiter sets the rate limiter applied to search calls.
func WithLimiter(l *rate.Limiter) ClientOption {
	return func(o *ClientOptions) { o.limiter = l }
}

// NewClient constructs a Client for the given Twitch application credentials.
func NewClient(clientID, clientSecret string, opts ...ClientOption) *Client {
	o := &ClientOptions{
		gamesURL: DefaultGamesURL,
		http:     &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.limiter == nil {
		o.limiter = NewLimiter(0)
	}
	return &Client{
		clientID: clientID,
		tokens:   NewTokenSource(clientID, clientSecret, o.tokenURL, o.http),
		gamesURL: o.gamesURL,
		http:     o.http,
		limiter:  o.limiter,
	}
}

// Configured reports whether credentials are present.
func (c *Client) Configured() bool {
	return c.tokens.clientID != "" && c.tokens.clientSecret != ""
}

type gameResult struct {
	Name  string `json:"name"`
	Cover *struct {
		ImageID string `json:"image_id"`
	} `json:"cover"`
}

// CoverURL finds the first IGDB match for title and returns its cover.
func (c *Client) CoverURL(ctx context.Context, title string) (Cover, error) {
	if !c.Configured() {
		return Cover{}, ErrMissingCredentials
	}
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return Cover{}, err
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return Cover{}, err
	}

	body := fmt.Sprintf("fields name,cover.image_id; search %s; limit 1;", quote(title))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.gamesURL, strings.NewReader(body))
	if err != nil {
		return Cover{}, err
	}
	req.Header.Set("Client-ID", c.clientID)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Cover{}, fmt.Errorf("igdb request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(resp.Body)
		return Cover{}, &UpstreamError{Status: resp.StatusCode, Body: string(b)}
	}

	var games []gameResult
	if err := json.NewDecoder(resp.Body).Decode(&games); err != nil {
		return Cover{}, fmt.Errorf("decode igdb response: %w", err)
	}
	if len(games) == 0 || games[0].Cover == nil || games[0].Cover.ImageID == "" {
		return Cover{}, nil
	}

	id := games[0].Cover.ImageID
	u := fmt.Sprintf(CoverURLTemplate, id)
	return Cover{ImageID: &id, URL: &u}, nil
}

// quote renders title as an Apicalypse string literal.
func quote(title string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return `"` + r.Replace(title) + `"`
}
