// Package models defines the core domain models for trigger-reaction automation.
package models

import "time"

// Area is one user-configured automation: a single trigger binding wired to
// one or more reaction bindings. The sweep engine only ever mutates
// LastTriggeredAt, TriggerCount and the trigger binding's cursor metadata;
// everything else belongs to the API layer.
type Area struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"                        validate:"required,min=3"`
	Description     string            `json:"description,omitempty"`
	Enabled         bool              `json:"enabled"`
	Trigger         TriggerBinding    `json:"trigger"                     validate:"required"`
	Reactions       []ReactionBinding `json:"reactions"`
	LastTriggeredAt *time.Time        `json:"last_triggered_at,omitempty"`
	TriggerCount    int64             `json:"trigger_count"`
	Owner           string            `json:"owner"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// TriggerBinding identifies which capability implements the area's condition.
// Metadata is the trigger-defined cursor state (e.g. last seen issue id) and is
// owned exclusively by the sweep engine after creation.
type TriggerBinding struct {
	ID           string         `json:"id"`
	Service      string         `json:"service"       validate:"required"`
	Trigger      string         `json:"trigger"       validate:"required"`
	Parameters   map[string]any `json:"parameters,omitempty"`
	ConnectionID string         `json:"connection_id,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

// ReactionBinding identifies one side effect to run when the area fires.
// Parameters may contain {{placeholder}} references into the trigger's
// emitted data.
type ReactionBinding struct {
	ID           string         `json:"id"`
	Service      string         `json:"service"  validate:"required"`
	Reaction     string         `json:"reaction" validate:"required"`
	Parameters   map[string]any `json:"parameters,omitempty"`
	ConnectionID string         `json:"connection_id,omitempty"`
}
