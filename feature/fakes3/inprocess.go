package fakes3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"s3kit/core/transport"
)

// InProcess adapts a fake endpoint into a transport.Doer, routing requests
// through the fiber app without opening a socket. This lets the real client
// run end to end against the fake, virtual-hosted addressing included,
// since the Host header travels with the request.
type InProcess struct {
	srv *Server
}

// InProcess returns a transport bound to this server.
func (s *Server) InProcess() *InProcess {
	return &InProcess{srv: s}
}

// PerformRequest mirrors the contract of transport.HTTPDoer: the full body
// is read and a non-2xx status becomes a *transport.StatusError.
func (ip *InProcess) PerformRequest(ctx context.Context, uri, method string, header http.Header, body []byte) (*transport.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, uri, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	for name, values := range header {
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}

	resp, err := ip.srv.app.Test(req, -1)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	out := &transport.Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &transport.StatusError{StatusCode: resp.StatusCode, Response: out}
	}
	return out, nil
}
