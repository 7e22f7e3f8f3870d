package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type QueryCacheMock struct {
	mock.Mock
}

func NewQueryCacheMock() *QueryCacheMock {
	return &QueryCacheMock{}
}

// Get 命中時請以 .Run 寫入 dest
func (m *QueryCacheMock) Get(ctx context.Context, key string, dest any) (bool, error) {
	args := m.Called(ctx, key, dest)
	return args.Bool(0), args.Error(1)
}

func (m *QueryCacheMock) Version(ctx context.Context, key string) (int64, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(int64), args.Error(1)
}

func (m *QueryCacheMock) Set(ctx context.Context, key string, value any, version int64) (bool, error) {
	args := m.Called(ctx, key, value, version)
	return args.Bool(0), args.Error(1)
}

func (m *QueryCacheMock) Invalidate(ctx context.Context, keys ...string) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}
