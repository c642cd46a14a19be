package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFiringKey_HourlyBuckets(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 34, 56, 0, time.UTC)

	assert.Equal(t, "areion:firings:area-1:2025060112", firingKey("area-1", at))

	// Same hour collapses to the same bucket.
	assert.Equal(t, firingKey("area-1", at), firingKey("area-1", at.Add(20*time.Minute)))

	// Next hour is a new bucket.
	assert.NotEqual(t, firingKey("area-1", at), firingKey("area-1", at.Add(time.Hour)))
}

func TestFiringKey_NormalizesToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	local := time.Date(2025, 6, 1, 14, 0, 0, 0, loc)

	assert.Equal(t, "areion:firings:area-1:2025060112", firingKey("area-1", local))
}

func TestNoopSink(t *testing.T) {
	sink := NewNoopSink()
	require.NoError(t, sink.RecordFiring(context.Background(), "area-1", time.Now()))
}
