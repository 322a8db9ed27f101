package mocks

import (
	"context"
	"net/http"

	"s3kit/core/transport"

	"github.com/stretchr/testify/mock"
)

// Doer is a mock implementation of transport.Doer
type Doer struct {
	mock.Mock
}

func (m *Doer) PerformRequest(ctx context.Context, uri, method string, header http.Header, body []byte) (*transport.Response, error) {
	args := m.Called(ctx, uri, method, header, body)
	if resp, ok := args.Get(0).(*transport.Response); ok {
		return resp, args.Error(1)
	}
	return nil, args.Error(1)
}
