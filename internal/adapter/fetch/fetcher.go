// Package fetch retrieves the raw HTML of a job posting URL.
package fetch

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/ozgung/JobsAnalyzer/internal/domain"
)

// DefaultUserAgent is a browser-like identity; many job boards refuse
// requests from obvious bots.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

const defaultTimeout = 15 * time.Second

// maxBodyBytes caps how much of a response is read.
const maxBodyBytes = 10 << 20

// Client implements domain.PageFetcher with a single bounded HTTP GET.
// No retries are performed.
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// New creates a fetch client. Zero values fall back to the defaults.
func New(timeout time.Duration, userAgent string) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  userAgent,
	}
}

// Fetch performs the GET and returns the response body. A non-success
// status and a transport failure are both reported as *domain.FetchError,
// carrying the status code or the underlying cause respectively.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &domain.FetchError{URL: url, Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &domain.FetchError{URL: url, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &domain.FetchError{URL: url, Err: err}
	}
	return body, nil
}
