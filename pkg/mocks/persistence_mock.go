// Package mocks provides testify mocks for the persistence and credential
// interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/dukex/areion/pkg/models"
	"github.com/stretchr/testify/mock"
)

// MockAreaRepository is a mock implementation of persistence.AreaRepository.
type MockAreaRepository struct {
	mock.Mock
}

func (m *MockAreaRepository) ListEnabledAreas(ctx context.Context) ([]*models.Area, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*models.Area), args.Error(1)
}

func (m *MockAreaRepository) UpdateTriggerMetadata(ctx context.Context, triggerBindingID string, metadata map[string]any) error {
	args := m.Called(ctx, triggerBindingID, metadata)

	return args.Error(0)
}

func (m *MockAreaRepository) RecordFiring(ctx context.Context, areaID string, firedAt time.Time) error {
	args := m.Called(ctx, areaID, firedAt)

	return args.Error(0)
}

func (m *MockAreaRepository) Areas(ctx context.Context) ([]*models.Area, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*models.Area), args.Error(1)
}

func (m *MockAreaRepository) AreaByID(ctx context.Context, id string) (*models.Area, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Area), args.Error(1)
}

func (m *MockAreaRepository) SaveArea(ctx context.Context, area *models.Area) error {
	args := m.Called(ctx, area)

	return args.Error(0)
}

func (m *MockAreaRepository) DeleteArea(ctx context.Context, id string) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}

// MockConnectionRepository is a mock implementation of
// persistence.ConnectionRepository.
type MockConnectionRepository struct {
	mock.Mock
}

func (m *MockConnectionRepository) ConnectionByID(ctx context.Context, id string) (*models.Connection, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Connection), args.Error(1)
}

func (m *MockConnectionRepository) SaveConnection(ctx context.Context, connection *models.Connection) error {
	args := m.Called(ctx, connection)

	return args.Error(0)
}

func (m *MockConnectionRepository) DeleteConnection(ctx context.Context, id string) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}
