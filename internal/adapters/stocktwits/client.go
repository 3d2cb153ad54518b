package stocktwits

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"golang.org/x/time/rate"

	"tickerpulse/internal/adapters/config"
	"tickerpulse/internal/domain/stream"
	"tickerpulse/pkg/errors"
)

const errBodyExcerptLen = 200

// Client fetches symbol stream pages from the StockTwits public API. It
// implements stream.Source.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	limiter    *rate.Limiter
}

// NewClient creates a rate-limited StockTwits client
func NewClient(cfg config.ProviderConfig) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		baseURL:    cfg.BaseURL,
		userAgent:  cfg.UserAgent,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSec), 1),
	}
}

type streamResponse struct {
	Cursor struct {
		Max   int64 `json:"max"`
		Since int64 `json:"since"`
		More  bool  `json:"more"`
	} `json:"cursor"`
	Messages []stream.RawMessage `json:"messages"`
}

// FetchPage returns one page of the symbol stream, newest first. A maxID of
// 0 requests the newest page; otherwise only messages with id <= maxID are
// returned. An exhausted stream yields an empty page, not an error.
func (c *Client) FetchPage(ctx context.Context, symbol string, maxID int64) (*stream.Page, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(err, "rate limiter wait interrupted")
	}

	endpoint := fmt.Sprintf("%s/streams/symbol/%s.json", c.baseURL, url.PathEscape(symbol))
	if maxID > 0 {
		endpoint += "?max=" + strconv.FormatInt(maxID, 10)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to build stream request: symbol=%s", symbol)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrFetchFailed, "stream request failed: symbol=%s: %v", symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, errBodyExcerptLen))
		return nil, errors.Wrapf(errors.ErrFetchFailed, "stream status %d for %s: %s", resp.StatusCode, symbol, excerpt)
	}

	var decoded streamResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, errors.Wrapf(errors.ErrFetchFailed, "failed to decode stream response: symbol=%s: %v", symbol, err)
	}

	return &stream.Page{
		Messages: decoded.Messages,
		HasMore:  decoded.Cursor.More,
	}, nil
}

// ExtractWatchers returns the watcher count when the stream payload carries
// one. The public stream endpoint currently does not, so absence is the
// normal case and callers must treat nil as expected.
func (c *Client) ExtractWatchers(symbol string, msgs []stream.RawMessage) *int {
	return nil
}
