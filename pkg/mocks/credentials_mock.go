package mocks

import (
	"context"

	"github.com/dukex/areion/pkg/eventbus"
	"github.com/dukex/areion/pkg/models"
	"github.com/stretchr/testify/mock"
)

// MockResolver is a mock implementation of credentials.Resolver.
type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) Resolve(ctx context.Context, connectionID string) (*models.Credential, error) {
	args := m.Called(ctx, connectionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Credential), args.Error(1)
}

// MockPublisher is a mock implementation of eventbus.EventPublisher.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, key string, event eventbus.Event) error {
	args := m.Called(ctx, key, event)

	return args.Error(0)
}
