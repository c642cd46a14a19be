package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dukex/areion/pkg/credentials"
	"github.com/dukex/areion/pkg/models"
	"github.com/dukex/areion/pkg/persistence"
	"github.com/dukex/areion/pkg/protocol"
	"github.com/dukex/areion/pkg/registry"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Area is the service behind the area endpoints: it validates bindings
// against the capability registry, drives trigger lifecycle hooks and owns
// identifier and timestamp assignment.
type Area struct {
	persistence persistence.Persistence
	registry    *registry.Registry
	resolver    credentials.Resolver
	validate    *validator.Validate
	logger      *slog.Logger
}

func NewArea(
	persistence persistence.Persistence,
	reg *registry.Registry,
	resolver credentials.Resolver,
	logger *slog.Logger,
) *Area {
	return &Area{
		persistence: persistence,
		registry:    reg,
		resolver:    resolver,
		validate:    validator.New(),
		logger:      logger.With("module", "area_service"),
	}
}

// HealthCheck checks the health of the persistence layer.
func (a *Area) HealthCheck(ctx context.Context) (string, bool) {
	if a.persistence == nil {
		return "Persistence layer not initialized", false
	}

	err := a.persistence.HealthCheck(ctx)
	if err != nil {
		return "Persistence layer is unhealthy: " + err.Error(), false
	}

	return "Persistence layer is healthy", true
}

func (a *Area) ListAreas(ctx context.Context) ([]*models.Area, error) {
	areas, err := a.persistence.AreaRepository().Areas(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list areas: %w", err)
	}

	return areas, nil
}

func (a *Area) AreaByID(ctx context.Context, id string) (*models.Area, error) {
	area, err := a.persistence.AreaRepository().AreaByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return area, nil
}

// CreateArea validates, assigns identifiers, runs the trigger's setup hook
// when it has one, and persists the new area.
func (a *Area) CreateArea(ctx context.Context, area *models.Area) (*models.Area, error) {
	if area == nil {
		return nil, ErrAreaNil
	}

	if area.ID == "" {
		area.ID = uuid.New().String()
	}

	if area.Trigger.ID == "" {
		area.Trigger.ID = uuid.New().String()
	}

	for i := range area.Reactions {
		if area.Reactions[i].ID == "" {
			area.Reactions[i].ID = uuid.New().String()
		}
	}

	now := time.Now().UTC()
	area.CreatedAt = now
	area.UpdatedAt = now

	err := a.validateArea(area)
	if err != nil {
		return nil, err
	}

	err = a.setupTrigger(ctx, area)
	if err != nil {
		return nil, err
	}

	err = a.persistence.AreaRepository().SaveArea(ctx, area)
	if err != nil {
		return nil, fmt.Errorf("failed to save area: %w", err)
	}

	a.logger.InfoContext(ctx, "Area created", "area_id", area.ID, "name", area.Name)

	return area, nil
}

// UpdateArea replaces an existing area's definition. The trigger cursor is
// reset when the trigger binding changes service or trigger name.
func (a *Area) UpdateArea(ctx context.Context, id string, area *models.Area) (*models.Area, error) {
	if area == nil {
		return nil, ErrAreaNil
	}

	existing, err := a.persistence.AreaRepository().AreaByID(ctx, id)
	if err != nil {
		return nil, err
	}

	area.ID = id
	area.CreatedAt = existing.CreatedAt
	area.UpdatedAt = time.Now().UTC()
	area.TriggerCount = existing.TriggerCount
	area.LastTriggeredAt = existing.LastTriggeredAt

	if area.Trigger.ID == "" {
		area.Trigger.ID = existing.Trigger.ID
	}

	if area.Trigger.Service == existing.Trigger.Service && area.Trigger.Trigger == existing.Trigger.Trigger {
		if area.Trigger.Metadata == nil {
			area.Trigger.Metadata = existing.Trigger.Metadata
		}
	} else {
		// Different capability, the old cursor is meaningless.
		area.Trigger.Metadata = nil
	}

	for i := range area.Reactions {
		if area.Reactions[i].ID == "" {
			area.Reactions[i].ID = uuid.New().String()
		}
	}

	err = a.validateArea(area)
	if err != nil {
		return nil, err
	}

	err = a.persistence.AreaRepository().SaveArea(ctx, area)
	if err != nil {
		return nil, fmt.Errorf("failed to save area: %w", err)
	}

	return area, nil
}

// DeleteArea removes an area, running the trigger's teardown hook when it has
// one. Teardown failures are logged but do not block the delete.
func (a *Area) DeleteArea(ctx context.Context, id string) error {
	area, err := a.persistence.AreaRepository().AreaByID(ctx, id)
	if err != nil {
		return err
	}

	a.teardownTrigger(ctx, area)

	return a.persistence.AreaRepository().DeleteArea(ctx, id)
}

// SetEnabled toggles whether the sweep engine picks the area up.
func (a *Area) SetEnabled(ctx context.Context, id string, enabled bool) (*models.Area, error) {
	area, err := a.persistence.AreaRepository().AreaByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if area.Enabled == enabled {
		return area, nil
	}

	area.Enabled = enabled
	area.UpdatedAt = time.Now().UTC()

	err = a.persistence.AreaRepository().SaveArea(ctx, area)
	if err != nil {
		return nil, fmt.Errorf("failed to save area: %w", err)
	}

	return area, nil
}

func (a *Area) validateArea(area *models.Area) error {
	err := a.validate.Struct(area)
	if err != nil {
		return NewValidationError("validate_area", err.Error(), ErrInvalidRequest)
	}

	trigger, ok := a.registry.Trigger(area.Trigger.Service, area.Trigger.Trigger)
	if !ok {
		return NewValidationError("validate_area",
			fmt.Sprintf("no trigger '%s' on service '%s'", area.Trigger.Trigger, area.Trigger.Service),
			ErrUnknownTrigger)
	}

	err = registry.ValidateParameters(trigger.Schema(), area.Trigger.Parameters)
	if err != nil {
		return NewValidationError("validate_area", err.Error(), ErrInvalidParameters)
	}

	for _, binding := range area.Reactions {
		reaction, ok := a.registry.Reaction(binding.Service, binding.Reaction)
		if !ok {
			return NewValidationError("validate_area",
				fmt.Sprintf("no reaction '%s' on service '%s'", binding.Reaction, binding.Service),
				ErrUnknownReaction)
		}

		err = registry.ValidateParameters(reaction.Schema(), binding.Parameters)
		if err != nil {
			return NewValidationError("validate_area", err.Error(), ErrInvalidParameters)
		}
	}

	return nil
}

func (a *Area) setupTrigger(ctx context.Context, area *models.Area) error {
	trigger, ok := a.registry.Trigger(area.Trigger.Service, area.Trigger.Trigger)
	if !ok {
		return ErrUnknownTrigger
	}

	setup, ok := trigger.(protocol.TriggerSetup)
	if !ok {
		return nil
	}

	ectx, err := a.evaluationContext(ctx, area)
	if err != nil {
		return err
	}

	err = setup.Setup(ctx, area.Trigger.Parameters, ectx)
	if err != nil {
		return NewValidationError("setup_trigger", err.Error(), ErrTriggerSetupFailed)
	}

	return nil
}

func (a *Area) teardownTrigger(ctx context.Context, area *models.Area) {
	trigger, ok := a.registry.Trigger(area.Trigger.Service, area.Trigger.Trigger)
	if !ok {
		return
	}

	teardown, ok := trigger.(protocol.TriggerTeardown)
	if !ok {
		return
	}

	ectx, err := a.evaluationContext(ctx, area)
	if err != nil {
		a.logger.WarnContext(ctx, "Skipping trigger teardown", "area_id", area.ID, "error", err)

		return
	}

	err = teardown.Teardown(ctx, area.Trigger.Parameters, ectx)
	if err != nil {
		a.logger.WarnContext(ctx, "Trigger teardown failed", "area_id", area.ID, "error", err)
	}
}

func (a *Area) evaluationContext(ctx context.Context, area *models.Area) (models.EvaluationContext, error) {
	ectx := models.EvaluationContext{
		AreaID:   area.ID,
		Owner:    area.Owner,
		Metadata: area.Trigger.Metadata,
		Logger:   a.logger,
	}

	if area.Trigger.ConnectionID != "" {
		credential, err := a.resolver.Resolve(ctx, area.Trigger.ConnectionID)
		if err != nil {
			return models.EvaluationContext{}, err
		}

		ectx.Credential = credential
	}

	return ectx, nil
}
