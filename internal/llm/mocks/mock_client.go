package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockClient struct {
	mock.Mock
}

func (m *MockClient) Complete(ctx context.Context, model, system, user string) (string, error) {
	args := m.Called(ctx, model, system, user)
	return args.String(0), args.Error(1)
}
