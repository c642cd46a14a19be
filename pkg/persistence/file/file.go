// Package file provides file-based persistence for areas and connections.
// It is intended for development and tests; production deployments use the
// postgresql implementation.
package file

import (
	"context"
	"os"
	"strings"

	"github.com/dukex/areion/pkg/persistence"
)

// Persistence implements the persistence.Persistence interface using the
// file system.
type Persistence struct {
	root           string
	areaRepo       *AreaRepository
	connectionRepo *ConnectionRepository
}

// NewPersistence creates a new instance rooted at the given directory.
func NewPersistence(root string) *Persistence {
	cleanRoot := strings.Replace(root, "file://", "", 1)

	return &Persistence{
		root:           cleanRoot,
		areaRepo:       NewAreaRepository(cleanRoot),
		connectionRepo: NewConnectionRepository(cleanRoot),
	}
}

func (fp *Persistence) AreaRepository() persistence.AreaRepository {
	return fp.areaRepo
}

func (fp *Persistence) ConnectionRepository() persistence.ConnectionRepository {
	return fp.connectionRepo
}

// HealthCheck verifies the root directory exists.
func (fp *Persistence) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(fp.root); os.IsNotExist(err) {
		return os.ErrNotExist
	}

	return nil
}

// Close performs any necessary cleanup. For file-based persistence, there is
// nothing to clean up.
func (fp *Persistence) Close(_ context.Context) error {
	return nil
}
