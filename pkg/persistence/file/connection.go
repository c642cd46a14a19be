package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/dukex/areion/pkg/models"
	"github.com/dukex/areion/pkg/persistence"
)

// ConnectionRepository stores one JSON document per connection under
// <root>/connections.
type ConnectionRepository struct {
	root string
}

func NewConnectionRepository(root string) *ConnectionRepository {
	return &ConnectionRepository{root: root}
}

func (cr *ConnectionRepository) ConnectionByID(_ context.Context, id string) (*models.Connection, error) {
	filePath := filepath.Clean(path.Join(cr.root, "connections", id+".json"))

	body, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, persistence.ErrConnectionNotFound
		}

		return nil, fmt.Errorf("failed to fetch connection %s: %w", id, err)
	}

	var connection models.Connection

	err = json.Unmarshal(body, &connection)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal connection %s: %w", id, err)
	}

	return &connection, nil
}

func (cr *ConnectionRepository) SaveConnection(_ context.Context, connection *models.Connection) error {
	err := os.MkdirAll(path.Join(cr.root, "connections"), 0750)
	if err != nil {
		return fmt.Errorf("failed to create connections directory: %w", err)
	}

	now := time.Now().UTC()
	if connection.CreatedAt.IsZero() {
		connection.CreatedAt = now
	}

	connection.UpdatedAt = now

	data, err := json.MarshalIndent(connection, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal connection %s: %w", connection.ID, err)
	}

	filePath := path.Join(cr.root, "connections", connection.ID+".json")

	return os.WriteFile(filePath, data, 0600)
}

func (cr *ConnectionRepository) DeleteConnection(_ context.Context, id string) error {
	filePath := path.Join(cr.root, "connections", id+".json")

	err := os.Remove(filePath)
	if err != nil && os.IsNotExist(err) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to delete connection %s: %w", id, err)
	}

	return nil
}
