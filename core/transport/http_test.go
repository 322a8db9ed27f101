package transport_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"s3kit/core/transport"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPDoer_PerformRequest(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		var gotMethod, gotHeader, gotBody string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			gotHeader = r.Header.Get("X-Amz-Meta-Owner")
			buf, _ := io.ReadAll(r.Body)
			gotBody = string(buf)
			w.Header().Set("ETag", `"abc"`)
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("hello"))
		}))
		defer srv.Close()

		doer := transport.NewHTTPDoer(transport.Config{})
		header := http.Header{}
		header.Set("X-Amz-Meta-Owner", "team")

		resp, err := doer.PerformRequest(context.Background(), srv.URL, "PUT", header, []byte("payload"))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, []byte("hello"), resp.Body)
		assert.Equal(t, `"abc"`, resp.Header.Get("ETag"))
		assert.Equal(t, "PUT", gotMethod)
		assert.Equal(t, "team", gotHeader)
		assert.Equal(t, "payload", gotBody)
	})

	t.Run("NonSuccessStatus", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusForbidden)
		}))
		defer srv.Close()

		doer := transport.NewHTTPDoer(transport.Config{})
		resp, err := doer.PerformRequest(context.Background(), srv.URL, "GET", nil, nil)
		assert.Nil(t, resp)

		var statusErr *transport.StatusError
		require.True(t, errors.As(err, &statusErr))
		assert.Equal(t, http.StatusForbidden, statusErr.StatusCode)
		assert.Contains(t, string(statusErr.Response.Body), "nope")
	})

	t.Run("ConnectionFailure", func(t *testing.T) {
		doer := transport.NewHTTPDoer(transport.Config{TimeoutSeconds: 1})
		_, err := doer.PerformRequest(context.Background(), "http://127.0.0.1:1/", "GET", nil, nil)
		assert.Error(t, err)
	})
}
