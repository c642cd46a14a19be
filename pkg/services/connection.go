package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dukex/areion/pkg/models"
	"github.com/dukex/areion/pkg/persistence"
	"github.com/dukex/areion/pkg/registry"
	"github.com/google/uuid"
)

// Connection manages stored service credentials.
type Connection struct {
	persistence persistence.Persistence
	registry    *registry.Registry
}

func NewConnection(persistence persistence.Persistence, reg *registry.Registry) *Connection {
	return &Connection{
		persistence: persistence,
		registry:    reg,
	}
}

func (c *Connection) ConnectionByID(ctx context.Context, id string) (*models.Connection, error) {
	return c.persistence.ConnectionRepository().ConnectionByID(ctx, id)
}

// CreateConnection stores a credential for a registered service.
func (c *Connection) CreateConnection(ctx context.Context, connection *models.Connection) (*models.Connection, error) {
	_, ok := c.registry.Service(connection.Service)
	if !ok {
		return nil, NewValidationError("create_connection",
			fmt.Sprintf("no service '%s' registered", connection.Service),
			ErrUnknownService)
	}

	if connection.Credential.AccessToken == "" {
		return nil, NewValidationError("create_connection", "access token is required", ErrInvalidRequest)
	}

	if connection.ID == "" {
		connection.ID = uuid.New().String()
	}

	now := time.Now().UTC()
	connection.CreatedAt = now
	connection.UpdatedAt = now

	err := c.persistence.ConnectionRepository().SaveConnection(ctx, connection)
	if err != nil {
		return nil, fmt.Errorf("failed to save connection: %w", err)
	}

	return connection, nil
}

func (c *Connection) DeleteConnection(ctx context.Context, id string) error {
	return c.persistence.ConnectionRepository().DeleteConnection(ctx, id)
}
