package s3_test

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"s3kit/core/awscreds"
	"s3kit/feature/s3"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2023, 5, 1, 12, 0, 0, 0, time.UTC)

func testCreds() *awscreds.Credentials {
	return awscreds.New("AKIAEXAMPLE", "secret")
}

func testEndpoint(t *testing.T) *awscreds.Endpoint {
	t.Helper()
	e, err := awscreds.NewEndpoint("http://s3.example.test")
	require.NoError(t, err)
	return e
}

func TestQuery_Host(t *testing.T) {
	t.Run("WithBucket", func(t *testing.T) {
		q := s3.NewQuery(s3.QueryParams{Action: "GET", Bucket: "mybucket", Endpoint: testEndpoint(t)})
		assert.Equal(t, "mybucket.s3.example.test", q.Host())
	})

	t.Run("WithoutBucket", func(t *testing.T) {
		q := s3.NewQuery(s3.QueryParams{Action: "GET", Endpoint: testEndpoint(t)})
		assert.Equal(t, "s3.example.test", q.Host())
	})

	t.Run("DefaultEndpoint", func(t *testing.T) {
		q := s3.NewQuery(s3.QueryParams{Action: "GET", Bucket: "mybucket"})
		assert.Equal(t, "mybucket.s3.amazonaws.com", q.Host())
	})
}

func TestQuery_Path(t *testing.T) {
	tests := []struct {
		name   string
		bucket string
		object string
		want   string
	}{
		{"NoObject", "mybucket", "", "/"},
		{"NoBucketNoObject", "", "", "/"},
		{"PlainObject", "mybucket", "report.pdf", "/report.pdf"},
		{"NestedObject", "mybucket", "docs/report.pdf", "/docs/report.pdf"},
		{"LeadingSlashVerbatim", "mybucket", "/custom/full/path", "/custom/full/path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := s3.NewQuery(s3.QueryParams{
				Action:   "GET",
				Bucket:   tt.bucket,
				Object:   tt.object,
				Endpoint: testEndpoint(t),
			})
			assert.Equal(t, tt.want, q.Path())
		})
	}
}

func TestQuery_URI(t *testing.T) {
	q := s3.NewQuery(s3.QueryParams{
		Action:   "GET",
		Bucket:   "mybucket",
		Object:   "report.pdf",
		Endpoint: testEndpoint(t),
	})
	assert.Equal(t, "http://mybucket.s3.example.test/report.pdf", q.URI())
}

func TestQuery_Headers(t *testing.T) {
	t.Run("MandatoryHeadersWithoutCredentials", func(t *testing.T) {
		q := s3.NewQuery(s3.QueryParams{Action: "GET", Endpoint: testEndpoint(t), Time: testTime})
		h := q.Headers()

		assert.Equal(t, "0", h.Get("Content-Length"))
		// base64 MD5 of zero bytes
		assert.Equal(t, "1B2M2Y8AsgTpgAmY7PhCfg==", h.Get("Content-MD5"))
		assert.Equal(t, "Mon, 01 May 2023 12:00:00 GMT", h.Get("Date"))
		assert.Empty(t, h.Get("Authorization"))
	})

	t.Run("AuthorizationWithCredentials", func(t *testing.T) {
		q := s3.NewQuery(s3.QueryParams{
			Action:   "GET",
			Creds:    testCreds(),
			Endpoint: testEndpoint(t),
			Time:     testTime,
		})
		auth := q.Headers().Get("Authorization")
		assert.True(t, strings.HasPrefix(auth, "AWS AKIAEXAMPLE:"), "got %q", auth)
		assert.NotEmpty(t, strings.TrimPrefix(auth, "AWS AKIAEXAMPLE:"))
	})

	t.Run("ContentMD5CoversPayload", func(t *testing.T) {
		q := s3.NewQuery(s3.QueryParams{
			Action:   "PUT",
			Bucket:   "mybucket",
			Object:   "obj",
			Data:     []byte("hello world"),
			Endpoint: testEndpoint(t),
			Time:     testTime,
		})
		h := q.Headers()
		assert.Equal(t, "11", h.Get("Content-Length"))
		assert.Equal(t, s3.ContentMD5([]byte("hello world")), h.Get("Content-MD5"))
	})

	t.Run("InferredContentType", func(t *testing.T) {
		q := s3.NewQuery(s3.QueryParams{
			Action:   "PUT",
			Bucket:   "docs",
			Object:   "report.pdf",
			Data:     []byte("%PDF-1.4"),
			Creds:    testCreds(),
			Endpoint: testEndpoint(t),
			Time:     testTime,
		})
		h := q.Headers()
		assert.Equal(t, "application/pdf", h.Get("Content-Type"))

		// The inferred type is part of the signed string.
		assert.Contains(t, s3.StringToSign("PUT", h, q.Path()), "application/pdf")
	})

	t.Run("UnknownExtensionOmitsContentType", func(t *testing.T) {
		q := s3.NewQuery(s3.QueryParams{
			Action:   "PUT",
			Bucket:   "mybucket",
			Object:   "blob.unknownext",
			Endpoint: testEndpoint(t),
			Time:     testTime,
		})
		assert.Empty(t, q.Headers().Get("Content-Type"))
	})

	t.Run("ExplicitContentTypeWins", func(t *testing.T) {
		q := s3.NewQuery(s3.QueryParams{
			Action:      "PUT",
			Bucket:      "mybucket",
			Object:      "report.pdf",
			ContentType: "application/octet-stream",
			Endpoint:    testEndpoint(t),
			Time:        testTime,
		})
		assert.Equal(t, "application/octet-stream", q.Headers().Get("Content-Type"))
	})

	t.Run("MetadataBecomesAmzHeaders", func(t *testing.T) {
		q := s3.NewQuery(s3.QueryParams{
			Action:   "PUT",
			Bucket:   "mybucket",
			Object:   "obj",
			Metadata: map[string]string{"Team": "core", "owner": "alice"},
			Endpoint: testEndpoint(t),
			Time:     testTime,
		})
		h := q.Headers()
		assert.Equal(t, "core", h.Get("x-amz-meta-team"))
		assert.Equal(t, "alice", h.Get("x-amz-meta-owner"))
	})
}

func TestCanonicalizedAmzHeaders(t *testing.T) {
	t.Run("SortedLowercased", func(t *testing.T) {
		h := http.Header{}
		h.Set("x-amz-meta-Team", "core")
		h.Set("x-amz-meta-owner", "alice")
		h.Set("Content-Type", "text/plain")
		h.Set("Date", "whenever")

		want := "x-amz-meta-owner:alice\nx-amz-meta-team:core\n"
		assert.Equal(t, want, s3.CanonicalizedAmzHeaders(h))
	})

	t.Run("OrderIndependentOfInsertion", func(t *testing.T) {
		a := http.Header{}
		a.Set("x-amz-meta-zulu", "1")
		a.Set("x-amz-meta-alpha", "2")

		b := http.Header{}
		b.Set("x-amz-meta-alpha", "2")
		b.Set("x-amz-meta-zulu", "1")

		assert.Equal(t, s3.CanonicalizedAmzHeaders(a), s3.CanonicalizedAmzHeaders(b))
	})

	t.Run("EmptyWithoutAmzHeaders", func(t *testing.T) {
		h := http.Header{}
		h.Set("Content-Type", "text/plain")
		assert.Empty(t, s3.CanonicalizedAmzHeaders(h))
	})

	t.Run("RepeatedNamesKeptSeparate", func(t *testing.T) {
		h := http.Header{}
		h.Add("x-amz-meta-tag", "one")
		h.Add("x-amz-meta-tag", "two")
		assert.Equal(t, "x-amz-meta-tag:one\nx-amz-meta-tag:two\n", s3.CanonicalizedAmzHeaders(h))
	})
}

func TestQuery_SigningDeterminism(t *testing.T) {
	base := func() s3.QueryParams {
		return s3.QueryParams{
			Action:   "PUT",
			Bucket:   "mybucket",
			Object:   "report.pdf",
			Data:     []byte("payload"),
			Metadata: map[string]string{"owner": "alice"},
			Creds:    testCreds(),
			Endpoint: testEndpoint(t),
			Time:     testTime,
		}
	}

	signature := func(p s3.QueryParams) string {
		return s3.NewQuery(p).Headers().Get("Authorization")
	}

	t.Run("IdenticalInputsIdenticalSignature", func(t *testing.T) {
		assert.Equal(t, signature(base()), signature(base()))
	})

	mutations := []struct {
		name   string
		mutate func(*s3.QueryParams)
	}{
		{"Method", func(p *s3.QueryParams) { p.Action = "GET" }},
		{"Payload", func(p *s3.QueryParams) { p.Data = []byte("other payload") }},
		{"ContentType", func(p *s3.QueryParams) { p.ContentType = "text/plain" }},
		{"Date", func(p *s3.QueryParams) { p.Time = testTime.Add(time.Minute) }},
		{"Metadata", func(p *s3.QueryParams) { p.Metadata = map[string]string{"owner": "bob"} }},
		{"Path", func(p *s3.QueryParams) { p.Object = "other.pdf" }},
	}

	for _, tt := range mutations {
		t.Run("ChangedBy"+tt.name, func(t *testing.T) {
			p := base()
			tt.mutate(&p)
			assert.NotEqual(t, signature(base()), signature(p))
		})
	}
}

func TestQuery_MetadataOwnership(t *testing.T) {
	// The query copies its metadata; later caller mutations must not leak
	// into an already-constructed query.
	meta := map[string]string{"owner": "alice"}
	q := s3.NewQuery(s3.QueryParams{
		Action:   "PUT",
		Bucket:   "mybucket",
		Object:   "obj",
		Metadata: meta,
		Endpoint: testEndpoint(t),
		Time:     testTime,
	})
	meta["owner"] = "mallory"
	assert.Equal(t, "alice", q.Headers().Get("x-amz-meta-owner"))
}

func TestContentMD5(t *testing.T) {
	t.Run("EmptyPayload", func(t *testing.T) {
		assert.Equal(t, "1B2M2Y8AsgTpgAmY7PhCfg==", s3.ContentMD5(nil))
		assert.Equal(t, s3.ContentMD5(nil), s3.ContentMD5([]byte{}))
	})

	t.Run("DistinctPayloads", func(t *testing.T) {
		assert.NotEqual(t, s3.ContentMD5([]byte("a")), s3.ContentMD5([]byte("b")))
	})
}
