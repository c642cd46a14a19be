// Package credentials resolves connection references into usable token
// material. The engine only reads credentials; refreshing expired tokens is
// an external collaborator concern.
package credentials

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dukex/areion/pkg/models"
	"github.com/dukex/areion/pkg/persistence"
)

var (
	// ErrCredentialMissing indicates the referenced connection does not exist.
	ErrCredentialMissing = errors.New("credential missing")

	// ErrCredentialExpired indicates the stored token expired and was not
	// refreshed by the time of resolution.
	ErrCredentialExpired = errors.New("credential expired")
)

// Resolver turns a connection id into current token material.
type Resolver interface {
	Resolve(ctx context.Context, connectionID string) (*models.Credential, error)
}

// StoreResolver resolves credentials from the connection repository.
type StoreResolver struct {
	connections persistence.ConnectionRepository
	now         func() time.Time
}

func NewStoreResolver(connections persistence.ConnectionRepository) *StoreResolver {
	return &StoreResolver{
		connections: connections,
		now:         time.Now,
	}
}

func (r *StoreResolver) Resolve(ctx context.Context, connectionID string) (*models.Credential, error) {
	connection, err := r.connections.ConnectionByID(ctx, connectionID)
	if err != nil {
		if persistence.IsConnectionNotFound(err) {
			return nil, fmt.Errorf("connection %s: %w", connectionID, ErrCredentialMissing)
		}

		return nil, fmt.Errorf("failed to resolve connection %s: %w", connectionID, err)
	}

	if connection.Credential.Expired(r.now()) {
		return nil, fmt.Errorf("connection %s: %w", connectionID, ErrCredentialExpired)
	}

	credential := connection.Credential

	return &credential, nil
}
