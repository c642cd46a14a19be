package services

import (
	"context"
	"testing"

	"github.com/dukex/areion/pkg/mocks"
	"github.com/dukex/areion/pkg/models"
	"github.com/dukex/areion/pkg/protocol"
	"github.com/dukex/areion/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func connectionFixture(t *testing.T) (*Connection, *mocks.MockConnectionRepository) {
	t.Helper()

	reg := registry.NewRegistry(testLogger())
	require.NoError(t, reg.RegisterService(&stubService{
		id:       "github",
		triggers: []protocol.Trigger{&stubTrigger{name: "new_issue"}},
	}))

	connections := &mocks.MockConnectionRepository{}
	service := NewConnection(&stubPersistence{areas: &mocks.MockAreaRepository{}, connections: connections}, reg)

	return service, connections
}

func TestCreateConnection_AssignsIDAndSaves(t *testing.T) {
	service, connections := connectionFixture(t)
	connections.On("SaveConnection", mock.Anything, mock.Anything).Return(nil)

	created, err := service.CreateConnection(context.Background(), &models.Connection{
		Service:    "github",
		Owner:      "dukex",
		Credential: models.Credential{AccessToken: "gh-token"},
	})

	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())
	connections.AssertExpectations(t)
}

func TestCreateConnection_RejectsUnknownService(t *testing.T) {
	service, connections := connectionFixture(t)

	_, err := service.CreateConnection(context.Background(), &models.Connection{
		Service:    "nonexistent",
		Credential: models.Credential{AccessToken: "token"},
	})

	require.ErrorIs(t, err, ErrUnknownService)
	assert.True(t, IsValidationError(err))
	connections.AssertNotCalled(t, "SaveConnection", mock.Anything, mock.Anything)
}

func TestCreateConnection_RejectsEmptyToken(t *testing.T) {
	service, _ := connectionFixture(t)

	_, err := service.CreateConnection(context.Background(), &models.Connection{Service: "github"})

	require.ErrorIs(t, err, ErrInvalidRequest)
}
