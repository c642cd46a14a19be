package web

import (
	"net/http"
	"time"

	"github.com/dukex/areion/pkg/models"
	"github.com/dukex/areion/pkg/registry"
	"github.com/dukex/areion/pkg/services"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

type APIHandlers struct {
	areaService       *services.Area
	connectionService *services.Connection
	validator         *validator.Validate
	registry          *registry.Registry
}

func NewAPIHandlers(
	areaService *services.Area,
	connectionService *services.Connection,
	validator *validator.Validate,
	registry *registry.Registry,
) *APIHandlers {
	return &APIHandlers{
		areaService:       areaService,
		connectionService: connectionService,
		validator:         validator,
		registry:          registry,
	}
}

func (h *APIHandlers) GetAreas(c fiber.Ctx) error {
	areas, err := h.areaService.ListAreas(c.Context())
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{"areas": areas})
}

func (h *APIHandlers) GetArea(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Area ID is required")
	}

	area, err := h.areaService.AreaByID(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(area)
}

func (h *APIHandlers) CreateArea(c fiber.Ctx) error {
	var req CreateAreaRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	area := &models.Area{
		Name:        req.Name,
		Description: req.Description,
		Owner:       req.Owner,
		Enabled:     enabled,
		Trigger:     bindTrigger(req.Trigger),
		Reactions:   bindReactions(req.Reactions),
	}

	created, err := h.areaService.CreateArea(c.Context(), area)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *APIHandlers) UpdateArea(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Area ID is required")
	}

	var req UpdateAreaRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	existing, err := h.areaService.AreaByID(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	if req.Name != nil {
		existing.Name = *req.Name
	}

	if req.Description != nil {
		existing.Description = *req.Description
	}

	if req.Trigger != nil {
		existing.Trigger = bindTrigger(*req.Trigger)
	}

	if req.Reactions != nil {
		existing.Reactions = bindReactions(req.Reactions)
	}

	updated, err := h.areaService.UpdateArea(c.Context(), id, existing)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(updated)
}

func (h *APIHandlers) DeleteArea(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Area ID is required")
	}

	err := h.areaService.DeleteArea(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) EnableArea(c fiber.Ctx) error {
	return h.setEnabled(c, true)
}

func (h *APIHandlers) DisableArea(c fiber.Ctx) error {
	return h.setEnabled(c, false)
}

func (h *APIHandlers) setEnabled(c fiber.Ctx, enabled bool) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Area ID is required")
	}

	area, err := h.areaService.SetEnabled(c.Context(), id, enabled)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(area)
}

// GetServices returns the capability catalog: every registered service with
// its triggers, reactions and their parameter schemas.
func (h *APIHandlers) GetServices(c fiber.Ctx) error {
	catalog := make([]ServiceResponse, 0)

	for _, service := range h.registry.Services() {
		entry := ServiceResponse{
			ID:          service.ID(),
			Description: service.Description(),
			Triggers:    make([]CapabilityResponse, 0),
			Reactions:   make([]CapabilityResponse, 0),
		}

		for _, trigger := range service.Triggers() {
			entry.Triggers = append(entry.Triggers, CapabilityResponse{
				Name:   trigger.Name(),
				Schema: trigger.Schema(),
			})
		}

		for _, reaction := range service.Reactions() {
			entry.Reactions = append(entry.Reactions, CapabilityResponse{
				Name:   reaction.Name(),
				Schema: reaction.Schema(),
			})
		}

		catalog = append(catalog, entry)
	}

	return c.JSON(fiber.Map{"services": catalog})
}

func (h *APIHandlers) CreateConnection(c fiber.Ctx) error {
	var req CreateConnectionRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	connection := &models.Connection{
		Service: req.Service,
		Owner:   req.Owner,
		Credential: models.Credential{
			AccessToken:  req.AccessToken,
			RefreshToken: req.RefreshToken,
		},
		Metadata: req.Metadata,
	}

	created, err := h.connectionService.CreateConnection(c.Context(), connection)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(TransformConnectionResponse(created))
}

func (h *APIHandlers) GetConnection(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Connection ID is required")
	}

	connection, err := h.connectionService.ConnectionByID(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(TransformConnectionResponse(connection))
}

func (h *APIHandlers) DeleteConnection(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Connection ID is required")
	}

	err := h.connectionService.DeleteConnection(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	repositoryCheck, repOk := h.areaService.HealthCheck(c.Context())

	status := "unhealthy"
	message := "Areion API is unhealthy"
	httpStatus := http.StatusInternalServerError

	if repOk {
		status = "healthy"
		message = "Areion API is healthy"
		httpStatus = http.StatusOK
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"checkers": fiber.Map{
			"repository": repositoryCheck,
		},
		"timestamp": time.Now().UTC(),
	})
}

func bindTrigger(req TriggerBindingRequest) models.TriggerBinding {
	return models.TriggerBinding{
		Service:      req.Service,
		Trigger:      req.Trigger,
		Parameters:   req.Parameters,
		ConnectionID: req.ConnectionID,
	}
}

func bindReactions(reqs []ReactionBindingRequest) []models.ReactionBinding {
	reactions := make([]models.ReactionBinding, 0, len(reqs))

	for _, req := range reqs {
		reactions = append(reactions, models.ReactionBinding{
			Service:      req.Service,
			Reaction:     req.Reaction,
			Parameters:   req.Parameters,
			ConnectionID: req.ConnectionID,
		})
	}

	return reactions
}
