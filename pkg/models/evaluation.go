package models

import "log/slog"

// EvaluationContext is the ephemeral per-evaluation value passed to trigger
// checks and reaction executions. It is built fresh for each area on each
// sweep and discarded afterwards; only CheckResult.Metadata and
// CheckResult.Data feed back into persistence and interpolation.
type EvaluationContext struct {
	AreaID     string
	Owner      string
	Credential *Credential
	// Metadata is the trigger's prior cursor state. Nil on the very first
	// evaluation of a binding.
	Metadata map[string]any
	// TriggerData is set for reaction executions only: the data map emitted
	// by the trigger check that fired in the same sweep pass.
	TriggerData map[string]any
	Logger      *slog.Logger
}

// CheckResult is the verdict of a single trigger check.
type CheckResult struct {
	// Fired is true when the trigger condition newly became true.
	Fired bool
	// Data is the interpolation source for reactions; only meaningful when
	// Fired is true.
	Data map[string]any
	// Metadata is the replacement cursor state, or nil for "no change".
	Metadata map[string]any
}
