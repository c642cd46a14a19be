// Package web provides the HTTP handlers of the admin REST API.
package web

import "github.com/dukex/areion/pkg/models"

// TriggerBindingRequest describes the trigger side of an area.
type TriggerBindingRequest struct {
	Service      string         `json:"service"       validate:"required"`
	Trigger      string         `json:"trigger"       validate:"required"`
	Parameters   map[string]any `json:"parameters"`
	ConnectionID string         `json:"connection_id"`
}

// ReactionBindingRequest describes one reaction of an area.
type ReactionBindingRequest struct {
	Service      string         `json:"service"       validate:"required"`
	Reaction     string         `json:"reaction"      validate:"required"`
	Parameters   map[string]any `json:"parameters"`
	ConnectionID string         `json:"connection_id"`
}

// CreateAreaRequest represents the request body for creating a new area.
type CreateAreaRequest struct {
	Name        string                   `json:"name"        validate:"required,min=3"`
	Description string                   `json:"description"`
	Owner       string                   `json:"owner"       validate:"required"`
	Enabled     *bool                    `json:"enabled"`
	Trigger     TriggerBindingRequest    `json:"trigger"     validate:"required"`
	Reactions   []ReactionBindingRequest `json:"reactions"   validate:"required,dive"`
}

// UpdateAreaRequest represents the request body for updating an area. All
// fields are optional to support partial updates; the trigger and reaction
// lists are replaced wholesale when present.
type UpdateAreaRequest struct {
	Name        *string                  `json:"name,omitempty"        validate:"omitempty,min=3"`
	Description *string                  `json:"description,omitempty"`
	Trigger     *TriggerBindingRequest   `json:"trigger,omitempty"`
	Reactions   []ReactionBindingRequest `json:"reactions,omitempty"   validate:"omitempty,dive"`
}

// CreateConnectionRequest represents the request body for storing a
// credential.
type CreateConnectionRequest struct {
	Service      string         `json:"service"       validate:"required"`
	Owner        string         `json:"owner"         validate:"required"`
	AccessToken  string         `json:"access_token"  validate:"required"`
	RefreshToken string         `json:"refresh_token"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

// ConnectionResponse hides the stored secrets.
type ConnectionResponse struct {
	ID       string         `json:"id"`
	Service  string         `json:"service"`
	Owner    string         `json:"owner"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

func TransformConnectionResponse(connection *models.Connection) ConnectionResponse {
	return ConnectionResponse{
		ID:       connection.ID,
		Service:  connection.Service,
		Owner:    connection.Owner,
		Metadata: connection.Metadata,
	}
}

// CapabilityResponse describes one trigger or reaction in the catalog.
type CapabilityResponse struct {
	Name   string         `json:"name"`
	Schema map[string]any `json:"schema,omitempty"`
}

// ServiceResponse describes one registered service and its capabilities.
type ServiceResponse struct {
	ID          string               `json:"id"`
	Description string               `json:"description"`
	Triggers    []CapabilityResponse `json:"triggers"`
	Reactions   []CapabilityResponse `json:"reactions"`
}
