// Package analytics records firing counters for dashboards. The area store
// remains the source of truth; sinks are best-effort telemetry and their
// failures never affect a sweep.
package analytics

import (
	"context"
	"time"
)

// Sink receives one call per trigger firing.
type Sink interface {
	RecordFiring(ctx context.Context, areaID string, firedAt time.Time) error
}

// NoopSink discards all firings. Used when no analytics backend is
// configured.
type NoopSink struct{}

func NewNoopSink() *NoopSink {
	return &NoopSink{}
}

func (*NoopSink) RecordFiring(_ context.Context, _ string, _ time.Time) error {
	return nil
}
