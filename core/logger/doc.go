// Package logger provides a structured logging facility based on Zap.
//
// The configured instance supports console encoding for interactive use
// (CLI, development) and JSON for production. The WithRequestID helper
// extracts the per-request ID from a Fiber context and attaches it to the
// log entry; the in-memory endpoint uses it to correlate request logs.
//
// Credentials never reach the logger: only access key identifiers are ever
// logged, never secrets.
package logger
