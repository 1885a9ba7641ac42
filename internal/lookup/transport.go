package lookup

import (
	"fmt"
	"net"
	"net/http"
	"time"

	"golang.org/x/net/http2"
)

// NewHTTPClient builds the HTTP client used for both the probe and the
// lookup request. The transport negotiates HTTP/2 via ALPN when the
// server offers it and falls back to HTTP/1.1 otherwise.
//
// No client-wide timeout is set: the probe applies its own deadline, and
// the lookup honors its own request timeout through the request context.
func NewHTTPClient() (*http.Client, error) {
	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	if err := http2.ConfigureTransport(transport); err != nil {
		return nil, fmt.Errorf("failed to enable HTTP/2: %w", err)
	}
	return &http.Client{Transport: transport}, nil
}
