package sweep

import (
	"context"
	"log/slog"
	"reflect"
	"time"

	"github.com/dukex/areion/pkg/events"
	"github.com/dukex/areion/pkg/interpolate"
	"github.com/dukex/areion/pkg/models"
	"github.com/dukex/areion/pkg/otelhelper"
	"go.opentelemetry.io/otel/attribute"
)

// processArea runs one area through the per-sweep algorithm and reports
// whether its trigger fired. Every failure is contained here: nothing this
// method encounters may abort the sweep.
func (s *Sweeper) processArea(ctx context.Context, area *models.Area) bool {
	logger := s.logger.With(
		"area_id", area.ID,
		"service", area.Trigger.Service,
		"trigger", area.Trigger.Trigger,
	)

	ctx, span := otelhelper.StartSpan(ctx, s.tracer, "sweeper.area",
		attribute.String(otelhelper.AreaIDKey, area.ID),
		attribute.String(otelhelper.ServiceIDKey, area.Trigger.Service),
		attribute.String(otelhelper.TriggerKey, area.Trigger.Trigger),
	)
	defer span.End()

	trigger, ok := s.registry.Trigger(area.Trigger.Service, area.Trigger.Trigger)
	if !ok {
		logger.Warn("Unknown trigger capability, skipping area")

		return false
	}

	credential, ok := s.resolveCredential(ctx, logger, area.Trigger.ConnectionID)
	if !ok {
		return false
	}

	ectx := models.EvaluationContext{
		AreaID:     area.ID,
		Owner:      area.Owner,
		Credential: credential,
		Metadata:   area.Trigger.Metadata,
		Logger:     logger,
	}

	checkCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	result, err := trigger.Check(checkCtx, area.Trigger.Parameters, ectx)

	cancel()

	if err != nil {
		// External failures are non-fatal: not fired, cursor untouched,
		// naturally retried on the next tick.
		logger.Warn("Trigger check failed", "error", err)
		otelhelper.SetError(span, err)

		return false
	}

	if result.Metadata != nil && !reflect.DeepEqual(result.Metadata, area.Trigger.Metadata) {
		err = s.areas.UpdateTriggerMetadata(ctx, area.Trigger.ID, result.Metadata)
		if err != nil {
			// Without the new cursor a firing would repeat next sweep, so
			// hold the reactions back until the cursor persists.
			logger.Error("Failed to persist trigger metadata, skipping firing", "error", err)

			return false
		}
	}

	if !result.Fired {
		return false
	}

	firedAt := time.Now().UTC()
	logger.Info("Trigger fired", "data", result.Data)

	// The firing record models "the condition was met", independent of any
	// reaction's outcome.
	err = s.areas.RecordFiring(ctx, area.ID, firedAt)
	if err != nil {
		logger.Error("Failed to record firing", "error", err)
	}

	err = s.sink.RecordFiring(ctx, area.ID, firedAt)
	if err != nil {
		logger.Warn("Failed to record firing analytics", "error", err)
	}

	s.publish(ctx, area.ID, events.AreaTriggered{
		BaseEvent:      events.NewBaseEvent(events.AreaTriggeredEvent, area.ID),
		TriggerService: area.Trigger.Service,
		TriggerName:    area.Trigger.Trigger,
		TriggerData:    result.Data,
	})

	for _, reaction := range area.Reactions {
		s.executeReaction(ctx, area, reaction, result.Data)
	}

	return true
}

// executeReaction runs one reaction binding with the trigger's emitted data
// bound into its parameters. Failures are logged and published, never
// propagated into the per-area loop.
func (s *Sweeper) executeReaction(ctx context.Context, area *models.Area, binding models.ReactionBinding, triggerData map[string]any) {
	logger := s.logger.With(
		"area_id", area.ID,
		"service", binding.Service,
		"reaction", binding.Reaction,
	)

	reaction, ok := s.registry.Reaction(binding.Service, binding.Reaction)
	if !ok {
		logger.Warn("Unknown reaction capability, skipping reaction")

		return
	}

	credential, ok := s.resolveCredential(ctx, logger, binding.ConnectionID)
	if !ok {
		return
	}

	params, _ := interpolate.Render(binding.Parameters, triggerData).(map[string]any)

	ectx := models.EvaluationContext{
		AreaID:      area.ID,
		Owner:       area.Owner,
		Credential:  credential,
		TriggerData: triggerData,
		Logger:      logger,
	}

	start := time.Now()

	execCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	err := reaction.Execute(execCtx, params, ectx)

	cancel()

	duration := time.Since(start)

	if err != nil {
		logger.Warn("Reaction failed", "error", err, "duration", duration)

		s.publish(ctx, area.ID, events.ReactionFailed{
			BaseEvent:         events.NewBaseEvent(events.ReactionFailedEvent, area.ID),
			ReactionBindingID: binding.ID,
			Service:           binding.Service,
			Reaction:          binding.Reaction,
			Error:             err.Error(),
			Duration:          duration,
		})

		return
	}

	logger.Info("Reaction executed", "duration", duration)

	s.publish(ctx, area.ID, events.ReactionCompleted{
		BaseEvent:         events.NewBaseEvent(events.ReactionCompletedEvent, area.ID),
		ReactionBindingID: binding.ID,
		Service:           binding.Service,
		Reaction:          binding.Reaction,
		Duration:          duration,
	})
}

// resolveCredential resolves a binding's connection reference. An empty
// connection id means the capability needs no credentials; a reference that
// cannot be resolved is a configuration error that skips the unit of work.
func (s *Sweeper) resolveCredential(ctx context.Context, logger *slog.Logger, connectionID string) (*models.Credential, bool) {
	if connectionID == "" {
		return nil, true
	}

	credential, err := s.resolver.Resolve(ctx, connectionID)
	if err != nil {
		logger.Warn("Failed to resolve connection, skipping", "connection_id", connectionID, "error", err)

		return nil, false
	}

	return credential, true
}
