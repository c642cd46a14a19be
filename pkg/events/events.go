// Package events defines event types for sweep lifecycle notifications.
package events

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const Topic = "areion.events"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	AreaTriggeredEvent     EventType = "area.triggered"
	ReactionCompletedEvent EventType = "reaction.completed"
	ReactionFailedEvent    EventType = "reaction.failed"
	SweepCompletedEvent    EventType = "sweep.completed"
)

type BaseEvent struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	AreaID    string         `json:"area_id,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

func NewBaseEvent(eventType EventType, areaID string) BaseEvent {
	return BaseEvent{
		ID:        "event-" + uuid.New().String()[:8],
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		AreaID:    areaID,
	}
}

// AreaTriggered is published once per firing, before reactions run.
type AreaTriggered struct {
	BaseEvent

	TriggerService string         `json:"trigger_service"`
	TriggerName    string         `json:"trigger_name"`
	TriggerData    map[string]any `json:"trigger_data,omitempty"`
}

func (e AreaTriggered) GetType() EventType {
	return AreaTriggeredEvent
}

// ReactionCompleted is published for each reaction that executed without
// error.
type ReactionCompleted struct {
	BaseEvent

	ReactionBindingID string        `json:"reaction_binding_id"`
	Service           string        `json:"service"`
	Reaction          string        `json:"reaction"`
	Duration          time.Duration `json:"duration"`
}

func (e ReactionCompleted) GetType() EventType {
	return ReactionCompletedEvent
}

// ReactionFailed is published for each reaction that returned an error; the
// failure never aborts the area's remaining reactions.
type ReactionFailed struct {
	BaseEvent

	ReactionBindingID string        `json:"reaction_binding_id"`
	Service           string        `json:"service"`
	Reaction          string        `json:"reaction"`
	Error             string        `json:"error"`
	Duration          time.Duration `json:"duration"`
}

func (e ReactionFailed) GetType() EventType {
	return ReactionFailedEvent
}

// SweepCompleted summarizes one full pass over the enabled areas.
type SweepCompleted struct {
	BaseEvent

	AreasEvaluated int           `json:"areas_evaluated"`
	AreasFired     int           `json:"areas_fired"`
	Duration       time.Duration `json:"duration"`
}

func (e SweepCompleted) GetType() EventType {
	return SweepCompletedEvent
}
