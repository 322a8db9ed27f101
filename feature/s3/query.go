package s3

import (
	"context"
	"crypto/md5"
	"crypto/sha1"
	"encoding/base64"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"s3kit/core/awscreds"
	"s3kit/core/transport"
)

// AmzHeaderPrefix marks vendor-specific headers that take part in
// canonicalization.
const AmzHeaderPrefix = "x-amz-"

// MetadataPrefix is prepended to user metadata keys to form their header
// names.
const MetadataPrefix = "x-amz-meta-"

// QueryParams carries everything needed to build one Query. Time may be
// left zero, in which case the current time is captured.
type QueryParams struct {
	Action      string // HTTP method token (GET, PUT, ...)
	Bucket      string
	Object      string
	Data        []byte
	ContentType string
	Metadata    map[string]string
	Creds       *awscreds.Credentials
	Endpoint    *awscreds.Endpoint
	Time        time.Time
}

// Query is a single-use request value. Addressing and signature are fully
// determined by the constructor inputs; nothing mutates after NewQuery
// returns, so computing headers and submitting are pure with respect to the
// Query itself.
type Query struct {
	action      string
	bucket      string
	object      string
	data        []byte
	contentType string
	metadata    map[string]string
	date        string
	creds       *awscreds.Credentials
	endpoint    *awscreds.Endpoint
}

// QueryFactory produces Query values; the client takes one explicitly so
// tests can substitute their own.
type QueryFactory func(p QueryParams) *Query

// NewQuery builds a Query, capturing the request timestamp and recording
// the HTTP method on a private copy of the endpoint. A missing endpoint
// falls back to the public S3 one.
func NewQuery(p QueryParams) *Query {
	ts := p.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	ep := p.Endpoint
	if ep == nil || ep.Host == "" {
		ep = awscreds.DefaultEndpoint()
	}
	// Copy so concurrent queries never race on the method field.
	epCopy := *ep
	epCopy.SetMethod(p.Action)

	// Each query owns its metadata; callers may reuse their map freely.
	metadata := make(map[string]string, len(p.Metadata))
	for k, v := range p.Metadata {
		metadata[k] = v
	}

	return &Query{
		action:      p.Action,
		bucket:      p.Bucket,
		object:      p.Object,
		data:        p.Data,
		contentType: p.ContentType,
		metadata:    metadata,
		date:        ts.UTC().Format(http.TimeFormat),
		creds:       p.Creds,
		endpoint:    &epCopy,
	}
}

// Host returns the virtual-hosted-style host: the bucket name becomes a DNS
// label in front of the endpoint host. Callers must supply DNS-safe bucket
// names; no local validation is performed.
func (q *Query) Host() string {
	if q.bucket == "" {
		return q.endpoint.Host
	}
	return q.bucket + "." + q.endpoint.Host
}

// Path returns the resource path: "/" for the service root or a bucket,
// "/<object>" otherwise. An object name that already starts with "/" is
// used verbatim as the full path.
func (q *Query) Path() string {
	path := "/"
	if q.bucket != "" && q.object != "" {
		if strings.HasPrefix(q.object, "/") {
			path = q.object
		} else {
			path += q.object
		}
	}
	return path
}

// URI returns the fully qualified request URL.
func (q *Query) URI() string {
	return fmt.Sprintf("%s://%s%s", q.endpoint.Scheme, q.Host(), q.Path())
}

// resolveContentType returns the explicit content type, or a best-effort
// guess from the object name's extension. Empty means unknown and the
// header is omitted.
func (q *Query) resolveContentType() string {
	if q.contentType != "" || q.object == "" {
		return q.contentType
	}
	return mime.TypeByExtension(filepath.Ext(q.object))
}

// Headers assembles the full header set. Content-Length, Content-MD5 and
// Date are always present; metadata becomes x-amz-meta-* headers;
// Content-Type is added when known. With credentials present an
// Authorization header of the form "AWS <access-key>:<signature>" is
// computed over the headers assembled so far; without credentials the
// request goes out unsigned (anonymous access to public resources).
func (q *Query) Headers() http.Header {
	h := http.Header{}
	h.Set("Content-Length", strconv.Itoa(len(q.data)))
	h.Set("Content-MD5", ContentMD5(q.data))
	h.Set("Date", q.date)
	for key, value := range q.metadata {
		h.Set(MetadataPrefix+key, value)
	}
	if ct := q.resolveContentType(); ct != "" {
		h.Set("Content-Type", ct)
	}
	if q.creds != nil {
		sig := q.creds.Sign(StringToSign(q.action, h, q.Path()), sha1.New)
		h.Set("Authorization", fmt.Sprintf("AWS %s:%s", q.creds.AccessKey, sig))
	}
	return h
}

// Submit hands the computed URI, method, headers and payload to the
// transport and returns its result unchanged. Error translation is left to
// the caller; nothing is retried here.
func (q *Query) Submit(ctx context.Context, doer transport.Doer) (*transport.Response, error) {
	return doer.PerformRequest(ctx, q.URI(), q.action, q.Headers(), q.data)
}

// ContentMD5 returns the base64-encoded MD5 digest of data. An empty
// payload yields the digest of zero bytes, not an empty string.
func ContentMD5(data []byte) string {
	sum := md5.Sum(data)
	return base64.StdEncoding.EncodeToString(sum[:])
}

// CanonicalizedAmzHeaders collects the headers whose names begin with the
// x-amz- prefix (case-insensitively), lower-cases the names, sorts them
// lexicographically, and joins each as "name:value\n".
//
// Two known deviations from the full service signing spec are kept as-is:
// repeated header names are not merged into one comma-separated line, and
// long header values are not unfolded.
func CanonicalizedAmzHeaders(h http.Header) string {
	type pair struct {
		name  string
		value string
	}
	var pairs []pair
	for name, values := range h {
		lower := strings.ToLower(name)
		if !strings.HasPrefix(lower, AmzHeaderPrefix) {
			continue
		}
		for _, v := range values {
			pairs = append(pairs, pair{name: lower, value: v})
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].name < pairs[j].name })

	var b strings.Builder
	for _, p := range pairs {
		fmt.Fprintf(&b, "%s:%s\n", p.name, p.value)
	}
	return b.String()
}

// StringToSign builds the canonical signing string for a request: method,
// Content-MD5, Content-Type and Date (empty where absent), each followed by
// a newline, then the canonicalized x-amz- headers and the resource path.
// The service reconstructs the same string to verify the signature, so
// every byte here is load-bearing.
func StringToSign(method string, h http.Header, path string) string {
	return method + "\n" +
		h.Get("Content-MD5") + "\n" +
		h.Get("Content-Type") + "\n" +
		h.Get("Date") + "\n" +
		CanonicalizedAmzHeaders(h) +
		path
}
