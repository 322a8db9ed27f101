// Package transport carries fully-formed storage requests over the wire.
//
// The Doer interface is the boundary between query construction (pure,
// synchronous) and I/O. The default HTTPDoer issues requests with strict
// connection timeouts and reads the whole response body; any non-2xx status
// becomes a *StatusError so that callers never need to inspect status codes
// themselves.
//
// Retry, backoff, and connection pooling policy live entirely in this layer
// (or its replacement); the query and client layers never retry.
//
// A testify-based mock implementation lives in transport/mocks.
package transport
