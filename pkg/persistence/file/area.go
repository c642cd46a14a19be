package file

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"time"

	"github.com/dukex/areion/pkg/models"
	"github.com/dukex/areion/pkg/persistence"
)

// AreaRepository stores one JSON document per area under <root>/areas.
type AreaRepository struct {
	root string
}

func NewAreaRepository(root string) *AreaRepository {
	return &AreaRepository{root: root}
}

// Areas returns every stored area sorted by creation time.
func (ar *AreaRepository) Areas(ctx context.Context) ([]*models.Area, error) {
	areasDir := os.DirFS(path.Join(ar.root, "areas"))

	jsonFiles, err := fs.Glob(areasDir, "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list area files: %w", err)
	}

	areas := make([]*models.Area, 0, len(jsonFiles))

	for _, file := range jsonFiles {
		areaID := file[:len(file)-5] // Remove .json extension

		area, err := ar.AreaByID(ctx, areaID)
		if err != nil {
			if persistence.IsAreaNotFound(err) {
				continue
			}

			return nil, err
		}

		areas = append(areas, area)
	}

	sort.Slice(areas, func(i, j int) bool {
		return areas[i].CreatedAt.Before(areas[j].CreatedAt)
	})

	return areas, nil
}

// ListEnabledAreas returns every enabled area with its bindings.
func (ar *AreaRepository) ListEnabledAreas(ctx context.Context) ([]*models.Area, error) {
	areas, err := ar.Areas(ctx)
	if err != nil {
		return nil, err
	}

	enabled := make([]*models.Area, 0, len(areas))

	for _, area := range areas {
		if area.Enabled {
			enabled = append(enabled, area)
		}
	}

	return enabled, nil
}

// AreaByID retrieves one area from the file system.
func (ar *AreaRepository) AreaByID(_ context.Context, areaID string) (*models.Area, error) {
	filePath := filepath.Clean(path.Join(ar.root, "areas", areaID+".json"))

	body, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, persistence.NewAreaError("AreaByID", areaID, persistence.ErrAreaNotFound)
		}

		return nil, fmt.Errorf("failed to fetch area %s: %w", areaID, err)
	}

	var area models.Area

	err = json.Unmarshal(body, &area)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal area %s: %w", areaID, err)
	}

	return &area, nil
}

// SaveArea writes an area to the file system.
func (ar *AreaRepository) SaveArea(_ context.Context, area *models.Area) error {
	err := os.MkdirAll(path.Join(ar.root, "areas"), 0750)
	if err != nil {
		return fmt.Errorf("failed to create areas directory: %w", err)
	}

	now := time.Now().UTC()
	if area.CreatedAt.IsZero() {
		area.CreatedAt = now
	}

	area.UpdatedAt = now

	data, err := json.MarshalIndent(area, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal area %s: %w", area.ID, err)
	}

	filePath := path.Join(ar.root, "areas", area.ID+".json")

	return os.WriteFile(filePath, data, 0600)
}

// DeleteArea removes an area and its bindings. Deleting a missing area is
// not an error.
func (ar *AreaRepository) DeleteArea(_ context.Context, id string) error {
	filePath := path.Join(ar.root, "areas", id+".json")

	err := os.Remove(filePath)
	if err != nil && os.IsNotExist(err) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to delete area %s: %w", id, err)
	}

	return nil
}

// UpdateTriggerMetadata replaces the cursor metadata of the trigger binding
// with the given id, wherever it lives.
func (ar *AreaRepository) UpdateTriggerMetadata(ctx context.Context, triggerBindingID string, metadata map[string]any) error {
	areas, err := ar.Areas(ctx)
	if err != nil {
		return err
	}

	for _, area := range areas {
		if area.Trigger.ID == triggerBindingID {
			area.Trigger.Metadata = metadata

			return ar.SaveArea(ctx, area)
		}
	}

	return persistence.ErrTriggerBindingNotFound
}

// RecordFiring increments the trigger counter and stamps the firing time.
func (ar *AreaRepository) RecordFiring(ctx context.Context, areaID string, firedAt time.Time) error {
	area, err := ar.AreaByID(ctx, areaID)
	if err != nil {
		return err
	}

	firedAt = firedAt.UTC()
	area.TriggerCount++
	area.LastTriggeredAt = &firedAt

	return ar.SaveArea(ctx, area)
}
