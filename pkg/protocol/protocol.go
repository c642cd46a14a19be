// Package protocol defines the contract between the sweep engine and
// service integrations. A service registers a set of named triggers and
// reactions once at process start; the engine has no per-service logic.
package protocol

import (
	"context"

	"github.com/dukex/areion/pkg/models"
)

// Trigger observes external state and reports whether its condition newly
// became true. Check must treat transport and decode failures as not-fired
// and must never panic; the returned error is logged by the sweep engine but
// never aborts the sweep.
type Trigger interface {
	Name() string
	Schema() map[string]any
	Check(ctx context.Context, params map[string]any, ectx models.EvaluationContext) (models.CheckResult, error)
}

// Reaction performs one side effect against an external service. Executions
// are at-least-once: re-running the same firing may duplicate the remote
// side effect.
type Reaction interface {
	Name() string
	Schema() map[string]any
	Execute(ctx context.Context, params map[string]any, ectx models.EvaluationContext) error
}

// Service bundles the triggers and reactions one integration contributes.
type Service interface {
	ID() string
	Description() string
	Triggers() []Trigger
	Reactions() []Reaction
}

// TriggerSetup is implemented by triggers that need a lifecycle hook when a
// binding referencing them is created. Invoked by the API layer, not on
// sweeps.
type TriggerSetup interface {
	Setup(ctx context.Context, params map[string]any, ectx models.EvaluationContext) error
}

// TriggerTeardown is the counterpart of TriggerSetup, invoked when a binding
// is removed.
type TriggerTeardown interface {
	Teardown(ctx context.Context, params map[string]any, ectx models.EvaluationContext) error
}
