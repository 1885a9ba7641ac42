package lookup

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shinji-kodama/nik-checker/internal/model"
)

// Prober checks whether the machine can reach the internet.
type Prober interface {
	Probe(ctx context.Context) error
}

// HTTPProber issues a GET to a well-known host and treats any HTTP
// response, whatever its status, as proof of connectivity. Only a
// transport failure (DNS, refused, timeout) counts as offline.
type HTTPProber struct {
	client    *http.Client
	url       string
	timeout   time.Duration
	userAgent string
}

// NewHTTPProber creates a prober for url with the given deadline.
func NewHTTPProber(client *http.Client, url string, timeout time.Duration, userAgent string) *HTTPProber {
	return &HTTPProber{client: client, url: url, timeout: timeout, userAgent: userAgent}
}

// Probe returns a CLIError with ExitNoConnection when the probe host
// cannot be reached within the timeout.
func (p *HTTPProber) Probe(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return model.WrapCLIError(model.ExitNoConnection,
			fmt.Sprintf("invalid probe URL %q", p.url), err)
	}
	if p.userAgent != "" {
		req.Header.Set("User-Agent", p.userAgent)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return model.WrapCLIError(model.ExitNoConnection, "no internet connection", err)
	}
	// Drain a little so the connection can be reused, then close.
	_, _ = io.CopyN(io.Discard, resp.Body, 4096)
	_ = resp.Body.Close()
	return nil
}

// ProbeFunc adapts a function to the Prober interface.
type ProbeFunc func(ctx context.Context) error

// Probe calls f(ctx).
func (f ProbeFunc) Probe(ctx context.Context) error {
	return f(ctx)
}
