package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// Config holds configuration for the HTTP transport.
type Config struct {
	// TimeoutSeconds is the connection setup / handshake / first-byte timeout.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}

// HTTPDoer is the default Doer backed by net/http.
type HTTPDoer struct {
	client *http.Client
}

// NewHTTPDoer creates an HTTPDoer with strict connection timeouts.
func NewHTTPDoer(cfg Config) *HTTPDoer {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	timeoutDuration := time.Duration(timeout) * time.Second

	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeoutDuration,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   timeoutDuration,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: timeoutDuration,
	}

	return &HTTPDoer{client: &http.Client{Transport: tr}}
}

// PerformRequest issues the request and reads the full response body.
// A non-2xx status is returned as a *StatusError carrying the response.
func (d *HTTPDoer) PerformRequest(ctx context.Context, uri, method string, header http.Header, body []byte) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, uri, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	for name, values := range header {
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}
	// net/http derives Host from the URL, which already carries the
	// virtual-hosted bucket name.

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	out := &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Response: out}
	}
	return out, nil
}
