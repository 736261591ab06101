package http

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockCommandHandler[C any] struct {
	mock.Mock
}

func (m *MockCommandHandler[C]) Handle(ctx context.Context, cmd C) error {
	args := m.Called(ctx, cmd)
	return args.Error(0)
}

type MockResultHandler[C, R any] struct {
	mock.Mock
}

func (m *MockResultHandler[C, R]) Handle(ctx context.Context, cmd C) (R, error) {
	args := m.Called(ctx, cmd)
	var zero R
	if r, ok := args.Get(0).(R); ok {
		zero = r
	}
	return zero, args.Error(1)
}
