package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dukex/areion/pkg/models"
	"github.com/dukex/areion/pkg/persistence"
)

// ConnectionRepository handles connection-related database operations.
type ConnectionRepository struct {
	db *sql.DB
}

func NewConnectionRepository(db *sql.DB) *ConnectionRepository {
	return &ConnectionRepository{db: db}
}

func (cr *ConnectionRepository) ConnectionByID(ctx context.Context, id string) (*models.Connection, error) {
	row := cr.db.QueryRowContext(ctx, `
		SELECT id, service, owner, access_token, refresh_token, expires_at,
		       metadata, created_at, updated_at
		FROM connections WHERE id = $1
	`, id)

	var (
		connection models.Connection
		expiresAt  sql.NullTime
		metadata   []byte
	)

	err := row.Scan(&connection.ID, &connection.Service, &connection.Owner,
		&connection.Credential.AccessToken, &connection.Credential.RefreshToken,
		&expiresAt, &metadata, &connection.CreatedAt, &connection.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.ErrConnectionNotFound
		}

		return nil, fmt.Errorf("failed to fetch connection %s: %w", id, err)
	}

	if expiresAt.Valid {
		t := expiresAt.Time.UTC()
		connection.Credential.ExpiresAt = &t
	}

	connection.Metadata, err = unmarshalJSONB(metadata)
	if err != nil {
		return nil, err
	}

	return &connection, nil
}

func (cr *ConnectionRepository) SaveConnection(ctx context.Context, connection *models.Connection) error {
	now := time.Now().UTC()
	if connection.CreatedAt.IsZero() {
		connection.CreatedAt = now
	}

	connection.UpdatedAt = now

	metadata, err := marshalNullableJSONB(connection.Metadata)
	if err != nil {
		return err
	}

	_, err = cr.db.ExecContext(ctx, `
		INSERT INTO connections (id, service, owner, access_token, refresh_token,
		                         expires_at, metadata, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			service = EXCLUDED.service,
			owner = EXCLUDED.owner,
			access_token = EXCLUDED.access_token,
			refresh_token = EXCLUDED.refresh_token,
			expires_at = EXCLUDED.expires_at,
			metadata = EXCLUDED.metadata,
			updated_at = EXCLUDED.updated_at
	`, connection.ID, connection.Service, connection.Owner,
		connection.Credential.AccessToken, connection.Credential.RefreshToken,
		connection.Credential.ExpiresAt, metadata, connection.CreatedAt, connection.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save connection %s: %w", connection.ID, err)
	}

	return nil
}

func (cr *ConnectionRepository) DeleteConnection(ctx context.Context, id string) error {
	_, err := cr.db.ExecContext(ctx, "DELETE FROM connections WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete connection %s: %w", id, err)
	}

	return nil
}
