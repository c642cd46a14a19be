package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dukex/areion/pkg/models"
	"github.com/dukex/areion/pkg/persistence"
)

// AreaRepository handles area-related database operations.
type AreaRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewAreaRepository(db *sql.DB, logger *slog.Logger) *AreaRepository {
	return &AreaRepository{db: db, logger: logger}
}

const selectAreaColumns = `
	SELECT id, name, description, enabled, owner, trigger_count,
	       last_triggered_at, created_at, updated_at
	FROM areas
`

// Areas returns every stored area with its bindings.
func (ar *AreaRepository) Areas(ctx context.Context) ([]*models.Area, error) {
	return ar.queryAreas(ctx, selectAreaColumns+" ORDER BY created_at")
}

// ListEnabledAreas returns every enabled area with its bindings.
func (ar *AreaRepository) ListEnabledAreas(ctx context.Context) ([]*models.Area, error) {
	return ar.queryAreas(ctx, selectAreaColumns+" WHERE enabled ORDER BY created_at")
}

func (ar *AreaRepository) queryAreas(ctx context.Context, query string, args ...any) ([]*models.Area, error) {
	rows, err := ar.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query areas: %w", err)
	}

	defer func() {
		_ = rows.Close()
	}()

	var areas []*models.Area

	for rows.Next() {
		area, err := scanArea(rows)
		if err != nil {
			return nil, err
		}

		areas = append(areas, area)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate areas: %w", err)
	}

	for _, area := range areas {
		err = ar.loadBindings(ctx, area)
		if err != nil {
			return nil, err
		}
	}

	return areas, nil
}

// AreaByID retrieves one area with its bindings.
func (ar *AreaRepository) AreaByID(ctx context.Context, id string) (*models.Area, error) {
	row := ar.db.QueryRowContext(ctx, selectAreaColumns+" WHERE id = $1", id)

	area, err := scanArea(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.NewAreaError("AreaByID", id, persistence.ErrAreaNotFound)
		}

		return nil, err
	}

	err = ar.loadBindings(ctx, area)
	if err != nil {
		return nil, err
	}

	return area, nil
}

// SaveArea upserts the area row and rewrites its bindings in one
// transaction.
func (ar *AreaRepository) SaveArea(ctx context.Context, area *models.Area) error {
	now := time.Now().UTC()
	if area.CreatedAt.IsZero() {
		area.CreatedAt = now
	}

	area.UpdatedAt = now

	transaction, err := ar.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	err = ar.saveAreaTx(ctx, transaction, area)
	if err != nil {
		_ = transaction.Rollback()

		return err
	}

	err = transaction.Commit()
	if err != nil {
		return fmt.Errorf("failed to commit area %s: %w", area.ID, err)
	}

	return nil
}

func (ar *AreaRepository) saveAreaTx(ctx context.Context, tx *sql.Tx, area *models.Area) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO areas (id, name, description, enabled, owner, trigger_count,
		                   last_triggered_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			enabled = EXCLUDED.enabled,
			owner = EXCLUDED.owner,
			updated_at = EXCLUDED.updated_at
	`, area.ID, area.Name, area.Description, area.Enabled, area.Owner,
		area.TriggerCount, area.LastTriggeredAt, area.CreatedAt, area.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert area %s: %w", area.ID, err)
	}

	_, err = tx.ExecContext(ctx, "DELETE FROM trigger_bindings WHERE area_id = $1", area.ID)
	if err != nil {
		return fmt.Errorf("failed to clear trigger binding for area %s: %w", area.ID, err)
	}

	triggerParams, err := marshalJSONB(area.Trigger.Parameters)
	if err != nil {
		return err
	}

	triggerMetadata, err := marshalNullableJSONB(area.Trigger.Metadata)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO trigger_bindings (id, area_id, service, trigger_name, parameters, connection_id, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, area.Trigger.ID, area.ID, area.Trigger.Service, area.Trigger.Trigger,
		triggerParams, area.Trigger.ConnectionID, triggerMetadata)
	if err != nil {
		return fmt.Errorf("failed to insert trigger binding for area %s: %w", area.ID, err)
	}

	_, err = tx.ExecContext(ctx, "DELETE FROM reaction_bindings WHERE area_id = $1", area.ID)
	if err != nil {
		return fmt.Errorf("failed to clear reaction bindings for area %s: %w", area.ID, err)
	}

	for position, reaction := range area.Reactions {
		reactionParams, err := marshalJSONB(reaction.Parameters)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO reaction_bindings (id, area_id, service, reaction_name, parameters, connection_id, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, reaction.ID, area.ID, reaction.Service, reaction.Reaction,
			reactionParams, reaction.ConnectionID, position)
		if err != nil {
			return fmt.Errorf("failed to insert reaction binding %s: %w", reaction.ID, err)
		}
	}

	return nil
}

// DeleteArea removes an area; bindings cascade.
func (ar *AreaRepository) DeleteArea(ctx context.Context, id string) error {
	_, err := ar.db.ExecContext(ctx, "DELETE FROM areas WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete area %s: %w", id, err)
	}

	return nil
}

// UpdateTriggerMetadata replaces the cursor metadata of one trigger binding.
func (ar *AreaRepository) UpdateTriggerMetadata(ctx context.Context, triggerBindingID string, metadata map[string]any) error {
	data, err := marshalNullableJSONB(metadata)
	if err != nil {
		return err
	}

	result, err := ar.db.ExecContext(ctx,
		"UPDATE trigger_bindings SET metadata = $2 WHERE id = $1",
		triggerBindingID, data)
	if err != nil {
		return fmt.Errorf("failed to update trigger metadata %s: %w", triggerBindingID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check trigger metadata update: %w", err)
	}

	if affected == 0 {
		return persistence.ErrTriggerBindingNotFound
	}

	return nil
}

// RecordFiring increments the trigger counter and stamps the firing time in
// one atomic statement.
func (ar *AreaRepository) RecordFiring(ctx context.Context, areaID string, firedAt time.Time) error {
	result, err := ar.db.ExecContext(ctx, `
		UPDATE areas
		SET trigger_count = trigger_count + 1,
		    last_triggered_at = $2,
		    updated_at = NOW()
		WHERE id = $1
	`, areaID, firedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to record firing for area %s: %w", areaID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check firing record: %w", err)
	}

	if affected == 0 {
		return persistence.NewAreaError("RecordFiring", areaID, persistence.ErrAreaNotFound)
	}

	return nil
}

func (ar *AreaRepository) loadBindings(ctx context.Context, area *models.Area) error {
	row := ar.db.QueryRowContext(ctx, `
		SELECT id, service, trigger_name, parameters, connection_id, metadata
		FROM trigger_bindings WHERE area_id = $1
	`, area.ID)

	var (
		parameters []byte
		metadata   []byte
	)

	err := row.Scan(&area.Trigger.ID, &area.Trigger.Service, &area.Trigger.Trigger,
		&parameters, &area.Trigger.ConnectionID, &metadata)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.NewAreaError("loadBindings", area.ID, persistence.ErrTriggerBindingNotFound)
		}

		return fmt.Errorf("failed to load trigger binding for area %s: %w", area.ID, err)
	}

	area.Trigger.Parameters, err = unmarshalJSONB(parameters)
	if err != nil {
		return err
	}

	area.Trigger.Metadata, err = unmarshalJSONB(metadata)
	if err != nil {
		return err
	}

	rows, err := ar.db.QueryContext(ctx, `
		SELECT id, service, reaction_name, parameters, connection_id
		FROM reaction_bindings WHERE area_id = $1 ORDER BY position
	`, area.ID)
	if err != nil {
		return fmt.Errorf("failed to load reaction bindings for area %s: %w", area.ID, err)
	}

	defer func() {
		_ = rows.Close()
	}()

	area.Reactions = nil

	for rows.Next() {
		var (
			reaction models.ReactionBinding
			params   []byte
		)

		err = rows.Scan(&reaction.ID, &reaction.Service, &reaction.Reaction, &params, &reaction.ConnectionID)
		if err != nil {
			return fmt.Errorf("failed to scan reaction binding: %w", err)
		}

		reaction.Parameters, err = unmarshalJSONB(params)
		if err != nil {
			return err
		}

		area.Reactions = append(area.Reactions, reaction)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate reaction bindings: %w", err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArea(row rowScanner) (*models.Area, error) {
	var (
		area            models.Area
		lastTriggeredAt sql.NullTime
	)

	err := row.Scan(&area.ID, &area.Name, &area.Description, &area.Enabled,
		&area.Owner, &area.TriggerCount, &lastTriggeredAt, &area.CreatedAt, &area.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}

		return nil, fmt.Errorf("failed to scan area: %w", err)
	}

	if lastTriggeredAt.Valid {
		t := lastTriggeredAt.Time.UTC()
		area.LastTriggeredAt = &t
	}

	return &area, nil
}

func marshalJSONB(value map[string]any) ([]byte, error) {
	if value == nil {
		return []byte("{}"), nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal jsonb value: %w", err)
	}

	return data, nil
}

func marshalNullableJSONB(value map[string]any) ([]byte, error) {
	if value == nil {
		return nil, nil
	}

	return marshalJSONB(value)
}

func unmarshalJSONB(data []byte) (map[string]any, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var value map[string]any

	err := json.Unmarshal(data, &value)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal jsonb value: %w", err)
	}

	return value, nil
}
