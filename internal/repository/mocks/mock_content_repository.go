package mocks

import (
	"context"

	"semantiapi/internal/repository"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MockContentRepository[T any] struct {
	mock.Mock
}

func (m *MockContentRepository[T]) Create(ctx context.Context, rec *T) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockContentRepository[T]) FindByID(ctx context.Context, id primitive.ObjectID) (*T, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *MockContentRepository[T]) FindOne(ctx context.Context, filter repository.Filter) (*T, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *MockContentRepository[T]) FindAll(ctx context.Context, filter repository.Filter) ([]T, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]T), args.Error(1)
}

func (m *MockContentRepository[T]) List(ctx context.Context, filter repository.Filter, pq repository.PageQuery) (*repository.PageResult[T], error) {
	args := m.Called(ctx, filter, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[T]), args.Error(1)
}

func (m *MockContentRepository[T]) Update(ctx context.Context, id primitive.ObjectID, ch repository.Changes) (*T, error) {
	args := m.Called(ctx, id, ch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *MockContentRepository[T]) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
