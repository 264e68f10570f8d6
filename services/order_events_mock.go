package services

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockEventPublisher is a testify mock of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

// Publish records the call and returns the configured error
func (m *MockEventPublisher) Publish(ctx context.Context, event OrderEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
