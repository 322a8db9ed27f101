package transport

import (
	"context"
	"fmt"
	"net/http"
)

// Response is the raw result of a performed request: status, headers, and
// the fully-read body.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Doer is the transport collaborator. It issues a fully-formed request and
// returns the raw response. Implementations are responsible for turning
// non-2xx statuses into errors; callers never inspect status codes.
type Doer interface {
	PerformRequest(ctx context.Context, uri, method string, header http.Header, body []byte) (*Response, error)
}

// StatusError reports a non-2xx response from the remote service. The
// response is retained so callers can examine the service's error document.
type StatusError struct {
	StatusCode int
	Response   *Response
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("remote service returned status %d", e.StatusCode)
}
