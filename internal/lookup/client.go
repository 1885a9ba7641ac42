package lookup

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/shinji-kodama/nik-checker/internal/model"
)

// maxBodyBytes caps how much of a response is read into memory.
const maxBodyBytes = 8 << 20

// Client performs the lookup request against the remote service.
type Client struct {
	http      *http.Client
	endpoint  *url.URL
	userAgent string
	timeout   time.Duration
	maxBody   int64
}

// NewClient creates a lookup client for endpoint. timeout of zero means
// the request is bounded only by the caller's context.
func NewClient(httpClient *http.Client, endpoint, userAgent string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid lookup endpoint %q: %w", endpoint, err)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{http: httpClient, endpoint: u, userAgent: userAgent, timeout: timeout, maxBody: maxBodyBytes}, nil
}

// URLFor returns the request URL for id. Existing query parameters on
// the endpoint are kept; "query" is set to the identifier.
func (c *Client) URLFor(id model.Identifier) string {
	u := *c.endpoint
	q := u.Query()
	q.Set("query", id.String())
	u.RawQuery = q.Encode()
	return u.String()
}

// Fetch issues exactly one GET for id and returns the response body.
//
// Returns a CLIError with ExitRequestFailed on transport errors
// (including context cancellation) and on any non-2xx status.
func (c *Client) Fetch(ctx context.Context, id model.Identifier) ([]byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	target := c.URLFor(id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitRequestFailed, "failed to build lookup request", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitRequestFailed, "lookup request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, model.WrapCLIError(model.ExitRequestFailed, "lookup request failed",
			fmt.Errorf("%s for url: %s", resp.Status, target))
	}

	// Read one byte past the cap so an oversized body is reported as such
	// instead of surfacing later as truncated JSON.
	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, model.WrapCLIError(model.ExitRequestFailed, "failed to read lookup response", err)
	}
	if int64(len(body)) > c.maxBody {
		return nil, model.NewCLIError(model.ExitRequestFailed,
			fmt.Sprintf("lookup response too large: exceeds %d bytes", c.maxBody))
	}
	return body, nil
}
