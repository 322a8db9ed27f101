package fakes3

import (
	"crypto/sha1"
	"encoding/xml"
	"errors"
	"net/http"
	"strings"

	"s3kit/core/awscreds"
	"s3kit/core/logger"
	"s3kit/feature/s3"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Config holds configuration for the fake endpoint.
type Config struct {
	// Addr is the listen address for standalone use.
	Addr string `mapstructure:"addr" default:":9000"`
	// BaseHost is the host under which bucket subdomains are recognized
	// (virtual-hosted-style addressing).
	BaseHost string `mapstructure:"base_host" default:"s3.localhost"`
}

var (
	errNoSuchBucket   = errors.New("no such bucket")
	errBucketNotEmpty = errors.New("bucket not empty")
	errNoSuchKey      = errors.New("no such key")
)

// Server is an in-memory, S3-wire-compatible endpoint. When constructed
// with credentials it independently rebuilds the canonical signing string
// of every request and rejects signature mismatches, the same check the
// real service performs.
type Server struct {
	cfg   Config
	creds *awscreds.Credentials
	logg  *zap.Logger
	app   *fiber.App
	state *store
}

// New creates a fake endpoint. creds may be nil to accept anonymous
// requests.
func New(cfg Config, creds *awscreds.Credentials, logg *zap.Logger) *Server {
	if logg == nil {
		logg = zap.NewNop()
	}

	s := &Server{
		cfg:   cfg,
		creds: creds,
		logg:  logg,
		state: newStore(),
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		// Ctx strings (hostname, path) are retained past the handler as
		// store keys, so they must not alias fasthttp's reusable buffers.
		Immutable: true,
	})

	// Request ID first so every log line can be correlated.
	app.Use(func(c *fiber.Ctx) error {
		rid := uuid.NewString()
		c.Locals("request_id", rid)
		c.Set("x-amz-request-id", rid)
		return c.Next()
	})

	app.Use(func(c *fiber.Ctx) error {
		l := logger.WithRequestID(s.logg, c)
		l.Info("request",
			zap.String("method", c.Method()),
			zap.String("host", c.Hostname()),
			zap.String("path", c.Path()),
		)
		return c.Next()
	})

	// Routing depends on the Host header, so a single dispatcher handles
	// every method and path.
	app.All("/*", s.dispatch)

	s.app = app
	return s
}

// App exposes the underlying fiber app so tests can drive requests
// in-process.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves the endpoint on the configured address, blocking until
// shutdown.
func (s *Server) Listen() error {
	return s.app.Listen(s.cfg.Addr)
}

// Shutdown stops a listening server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) dispatch(c *fiber.Ctx) error {
	bucketName, ok := s.bucketFromHost(c.Hostname())
	if !ok {
		return writeError(c, http.StatusBadRequest, "InvalidRequest", "unrecognized host")
	}

	if err := s.verifySignature(c); err != nil {
		return writeError(c, http.StatusForbidden, "SignatureDoesNotMatch", err.Error())
	}

	if bucketName == "" {
		return s.handleServiceRoot(c)
	}
	if c.Path() == "/" {
		return s.handleBucket(c, bucketName)
	}
	return s.handleObject(c, bucketName, strings.TrimPrefix(c.Path(), "/"))
}

// bucketFromHost resolves virtual-hosted addressing: the service root for
// the bare base host, or the leading DNS label as the bucket name.
func (s *Server) bucketFromHost(host string) (string, bool) {
	host = stripPort(host)
	base := stripPort(s.cfg.BaseHost)

	if host == base {
		return "", true
	}
	if strings.HasSuffix(host, "."+base) {
		return strings.TrimSuffix(host, "."+base), true
	}
	return "", false
}

func stripPort(host string) string {
	if i := strings.LastIndex(host, ":"); i != -1 {
		return host[:i]
	}
	return host
}

// verifySignature reconstructs the canonical signing string from the
// request exactly as the client builds it and compares signatures. With no
// configured credentials every request is accepted.
func (s *Server) verifySignature(c *fiber.Ctx) error {
	if s.creds == nil {
		return nil
	}

	h := requestHeader(c)
	auth := h.Get("Authorization")
	if auth == "" {
		return errors.New("request is not signed")
	}

	text := s3.StringToSign(c.Method(), h, c.Path())
	want := "AWS " + s.creds.AccessKey + ":" + s.creds.Sign(text, sha1.New)
	if auth != want {
		return errors.New("signature mismatch")
	}
	return nil
}

func (s *Server) handleServiceRoot(c *fiber.Ctx) error {
	if c.Method() != fiber.MethodGet {
		return writeError(c, http.StatusMethodNotAllowed, "MethodNotAllowed", "unsupported operation on service root")
	}
	return writeBucketList(c, s.state.listBuckets())
}

func (s *Server) handleBucket(c *fiber.Ctx, name string) error {
	switch c.Method() {
	case fiber.MethodPut:
		s.state.createBucket(name)
		return c.SendStatus(http.StatusOK)
	case fiber.MethodDelete:
		switch err := s.state.deleteBucket(name); {
		case errors.Is(err, errNoSuchBucket):
			return writeError(c, http.StatusNotFound, "NoSuchBucket", "the specified bucket does not exist")
		case errors.Is(err, errBucketNotEmpty):
			return writeError(c, http.StatusConflict, "BucketNotEmpty", "the bucket you tried to delete is not empty")
		default:
			return c.SendStatus(http.StatusNoContent)
		}
	default:
		return writeError(c, http.StatusMethodNotAllowed, "MethodNotAllowed", "unsupported bucket operation")
	}
}

func (s *Server) handleObject(c *fiber.Ctx, bucketName, key string) error {
	switch c.Method() {
	case fiber.MethodPut:
		h := requestHeader(c)
		body := append([]byte(nil), c.Body()...)
		if md5 := h.Get("Content-MD5"); md5 != "" && md5 != s3.ContentMD5(body) {
			return writeError(c, http.StatusBadRequest, "BadDigest", "the Content-MD5 you specified did not match the payload")
		}
		obj := &object{
			data:        body,
			contentType: h.Get("Content-Type"),
			metadata:    metadataHeaders(h),
		}
		if err := s.state.putObject(bucketName, key, obj); err != nil {
			return writeError(c, http.StatusNotFound, "NoSuchBucket", "the specified bucket does not exist")
		}
		return c.SendStatus(http.StatusOK)

	case fiber.MethodGet, fiber.MethodHead:
		obj, err := s.state.getObject(bucketName, key)
		switch {
		case errors.Is(err, errNoSuchBucket):
			return writeError(c, http.StatusNotFound, "NoSuchBucket", "the specified bucket does not exist")
		case errors.Is(err, errNoSuchKey):
			return writeError(c, http.StatusNotFound, "NoSuchKey", "the specified key does not exist")
		}
		if obj.contentType != "" {
			c.Set("Content-Type", obj.contentType)
		}
		for name, values := range obj.metadata {
			for _, v := range values {
				c.Set(name, v)
			}
		}
		if c.Method() == fiber.MethodHead {
			return c.SendStatus(http.StatusOK)
		}
		return c.Status(http.StatusOK).Send(obj.data)

	case fiber.MethodDelete:
		if err := s.state.deleteObject(bucketName, key); err != nil {
			return writeError(c, http.StatusNotFound, "NoSuchBucket", "the specified bucket does not exist")
		}
		return c.SendStatus(http.StatusNoContent)

	default:
		return writeError(c, http.StatusMethodNotAllowed, "MethodNotAllowed", "unsupported object operation")
	}
}

func requestHeader(c *fiber.Ctx) http.Header {
	h := http.Header{}
	c.Request().Header.VisitAll(func(k, v []byte) {
		h.Add(string(k), string(v))
	})
	return h
}

type xmlError struct {
	XMLName xml.Name `xml:"Error"`
	Code    string   `xml:"Code"`
	Message string   `xml:"Message"`
}

func writeError(c *fiber.Ctx, status int, code, message string) error {
	body, err := xml.Marshal(xmlError{Code: code, Message: message})
	if err != nil {
		return c.SendStatus(http.StatusInternalServerError)
	}
	c.Set("Content-Type", "application/xml")
	return c.Status(status).Send(body)
}

type xmlBucket struct {
	Name         string `xml:"Name"`
	CreationDate string `xml:"CreationDate"`
}

type xmlBucketList struct {
	XMLName xml.Name    `xml:"ListAllMyBucketsResult"`
	Buckets []xmlBucket `xml:"Buckets>Bucket"`
}

func writeBucketList(c *fiber.Ctx, buckets []bucketInfo) error {
	doc := xmlBucketList{}
	for _, b := range buckets {
		doc.Buckets = append(doc.Buckets, xmlBucket{
			Name:         b.Name,
			CreationDate: b.Created.Format("2006-01-02T15:04:05.000Z"),
		})
	}
	body, err := xml.Marshal(doc)
	if err != nil {
		return c.SendStatus(http.StatusInternalServerError)
	}
	c.Set("Content-Type", "application/xml")
	return c.Status(http.StatusOK).Send([]byte(xml.Header + string(body)))
}
