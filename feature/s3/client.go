package s3

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"time"

	"s3kit/core/awscreds"
	"s3kit/core/transport"

	"go.uber.org/zap"
)

// Bucket is a read-only view of a storage container as reported by the
// service. It has no local lifecycle.
type Bucket struct {
	Name    string
	Created time.Time
}

// PutOptions carries the optional attributes of an object upload.
type PutOptions struct {
	// ContentType is sent as-is when set; otherwise a type is inferred
	// from the object name's extension.
	ContentType string
	// Metadata entries become x-amz-meta-* headers on the request.
	Metadata map[string]string
}

// Client is the operation façade of the storage service. It owns default
// credentials and endpoint and builds one Query per operation.
type Client struct {
	creds    *awscreds.Credentials
	endpoint *awscreds.Endpoint
	doer     transport.Doer
	newQuery QueryFactory
	logger   *zap.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithTransport replaces the default HTTP transport.
func WithTransport(d transport.Doer) Option {
	return func(c *Client) { c.doer = d }
}

// WithQueryFactory replaces the query constructor, mainly for tests.
func WithQueryFactory(f QueryFactory) Option {
	return func(c *Client) { c.newQuery = f }
}

// WithLogger attaches a logger; the default is a nop.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a Client. Credentials may be nil for anonymous access to
// public resources; endpoint may be nil to use the public S3 endpoint.
func New(creds *awscreds.Credentials, endpoint *awscreds.Endpoint, opts ...Option) *Client {
	c := &Client{
		creds:    creds,
		endpoint: endpoint,
		doer:     transport.NewHTTPDoer(transport.Config{}),
		newQuery: NewQuery,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListBuckets returns all buckets owned by the authenticated caller, in the
// order the service reports them.
func (c *Client) ListBuckets(ctx context.Context) ([]Bucket, error) {
	c.logger.Debug("listing buckets")
	q := c.newQuery(QueryParams{Action: http.MethodGet, Creds: c.creds, Endpoint: c.endpoint})
	resp, err := q.Submit(ctx, c.doer)
	if err != nil {
		return nil, err
	}
	return parseBucketList(resp.Body)
}

// CreateBucket creates a new bucket. Success is silent; any failure comes
// from the transport.
func (c *Client) CreateBucket(ctx context.Context, bucket string) error {
	c.logger.Debug("creating bucket", zap.String("bucket", bucket))
	q := c.newQuery(QueryParams{Action: http.MethodPut, Bucket: bucket, Creds: c.creds, Endpoint: c.endpoint})
	_, err := q.Submit(ctx, c.doer)
	return err
}

// DeleteBucket deletes a bucket. The service requires the bucket to be
// empty; a violation surfaces as a transport error, nothing is checked
// locally.
func (c *Client) DeleteBucket(ctx context.Context, bucket string) error {
	c.logger.Debug("deleting bucket", zap.String("bucket", bucket))
	q := c.newQuery(QueryParams{Action: http.MethodDelete, Bucket: bucket, Creds: c.creds, Endpoint: c.endpoint})
	_, err := q.Submit(ctx, c.doer)
	return err
}

// PutObject stores an object, silently replacing any existing object of the
// same name.
func (c *Client) PutObject(ctx context.Context, bucket, object string, data []byte, opts PutOptions) error {
	c.logger.Debug("putting object",
		zap.String("bucket", bucket),
		zap.String("object", object),
		zap.Int("size", len(data)))
	q := c.newQuery(QueryParams{
		Action:      http.MethodPut,
		Bucket:      bucket,
		Object:      object,
		Data:        data,
		ContentType: opts.ContentType,
		Metadata:    opts.Metadata,
		Creds:       c.creds,
		Endpoint:    c.endpoint,
	})
	_, err := q.Submit(ctx, c.doer)
	return err
}

// GetObject retrieves an object. The raw response (body and headers) is
// returned un-parsed; interpreting content and type is the caller's
// business.
func (c *Client) GetObject(ctx context.Context, bucket, object string) (*transport.Response, error) {
	c.logger.Debug("getting object", zap.String("bucket", bucket), zap.String("object", object))
	q := c.newQuery(QueryParams{Action: http.MethodGet, Bucket: bucket, Object: object, Creds: c.creds, Endpoint: c.endpoint})
	return q.Submit(ctx, c.doer)
}

// HeadObject retrieves object metadata without the content. The raw
// response is returned; no decoding of metadata headers is performed, which
// makes this operation mostly useless on its own. Provided for
// completeness.
func (c *Client) HeadObject(ctx context.Context, bucket, object string) (*transport.Response, error) {
	c.logger.Debug("heading object", zap.String("bucket", bucket), zap.String("object", object))
	q := c.newQuery(QueryParams{Action: http.MethodHead, Bucket: bucket, Object: object, Creds: c.creds, Endpoint: c.endpoint})
	return q.Submit(ctx, c.doer)
}

// DeleteObject deletes an object. There is no way to restore or undelete
// it afterwards.
func (c *Client) DeleteObject(ctx context.Context, bucket, object string) error {
	c.logger.Debug("deleting object", zap.String("bucket", bucket), zap.String("object", object))
	q := c.newQuery(QueryParams{Action: http.MethodDelete, Bucket: bucket, Object: object, Creds: c.creds, Endpoint: c.endpoint})
	_, err := q.Submit(ctx, c.doer)
	return err
}

type bucketEntry struct {
	Name         string `xml:"Name"`
	CreationDate string `xml:"CreationDate"`
}

type bucketListDocument struct {
	Buckets []bucketEntry `xml:"Buckets>Bucket"`
}

// parseBucketList decodes the service's bucket-listing XML, preserving
// document order. A body that is not well-formed XML, or carries an
// unparseable creation date, is a parsing failure distinct from transport
// errors.
func parseBucketList(body []byte) ([]Bucket, error) {
	var doc bucketListDocument
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("malformed bucket listing: %w", err)
	}
	buckets := make([]Bucket, 0, len(doc.Buckets))
	for _, entry := range doc.Buckets {
		created, err := time.Parse(time.RFC3339, entry.CreationDate)
		if err != nil {
			return nil, fmt.Errorf("malformed bucket listing: bad creation date for %q: %w", entry.Name, err)
		}
		buckets = append(buckets, Bucket{Name: entry.Name, Created: created})
	}
	return buckets, nil
}
