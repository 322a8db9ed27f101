package awscreds

import (
	"fmt"
	"net/url"
)

// DefaultS3URI is the public endpoint of the storage service.
const DefaultS3URI = "https://s3.amazonaws.com"

// Endpoint describes where requests are sent: scheme, host, and the HTTP
// method currently in effect. The method is the only mutable part; it is
// recorded once per query because addressing and signing depend on it.
type Endpoint struct {
	Scheme string
	Host   string
	Method string
}

// NewEndpoint parses uri into an Endpoint. Only the scheme and host are
// taken; any path component is ignored.
func NewEndpoint(uri string) (*Endpoint, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint %q: %w", uri, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid endpoint %q: scheme and host required", uri)
	}
	return &Endpoint{Scheme: u.Scheme, Host: u.Host}, nil
}

// DefaultEndpoint returns the standard public S3 endpoint.
func DefaultEndpoint() *Endpoint {
	e, _ := NewEndpoint(DefaultS3URI)
	return e
}

// SetMethod records the HTTP method a query will use.
func (e *Endpoint) SetMethod(method string) {
	e.Method = method
}

// URI returns the scheme://host form of the endpoint.
func (e *Endpoint) URI() string {
	return fmt.Sprintf("%s://%s", e.Scheme, e.Host)
}
