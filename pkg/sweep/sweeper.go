// Package sweep implements the automation engine's core loop: on a fixed
// interval it evaluates every enabled area's trigger and executes the
// reactions of the ones that fired.
package sweep

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dukex/areion/pkg/analytics"
	"github.com/dukex/areion/pkg/credentials"
	"github.com/dukex/areion/pkg/eventbus"
	"github.com/dukex/areion/pkg/events"
	"github.com/dukex/areion/pkg/otelhelper"
	"github.com/dukex/areion/pkg/persistence"
	"github.com/dukex/areion/pkg/registry"
	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"
)

const (
	defaultConcurrency = 4
	defaultCallTimeout = 10 * time.Second
)

// Config tunes one sweeper instance.
type Config struct {
	// Concurrency bounds how many areas are evaluated in parallel within
	// one sweep. Areas share no mutable state, so this is a throughput
	// knob, not a correctness one.
	Concurrency int
	// CallTimeout is applied to every external call (trigger check,
	// reaction execute) so one unresponsive third-party API cannot stall
	// a sweep.
	CallTimeout time.Duration
	// Tracer records sweep and per-area spans. Optional.
	Tracer trace.Tracer
}

// Sweeper drives the sweep loop. It re-reads the area store on every tick
// and never caches areas or cursor state across sweeps.
type Sweeper struct {
	areas     persistence.AreaRepository
	registry  *registry.Registry
	resolver  credentials.Resolver
	publisher eventbus.EventPublisher
	sink      analytics.Sink
	logger    *slog.Logger
	tracer    trace.Tracer

	concurrency int
	callTimeout time.Duration

	mu       sync.Mutex
	cron     *cron.Cron
	cancel   context.CancelFunc
	inFlight atomic.Bool
}

func NewSweeper(
	config Config,
	areas persistence.AreaRepository,
	reg *registry.Registry,
	resolver credentials.Resolver,
	publisher eventbus.EventPublisher,
	sink analytics.Sink,
	logger *slog.Logger,
) *Sweeper {
	if config.Concurrency <= 0 {
		config.Concurrency = defaultConcurrency
	}

	if config.CallTimeout <= 0 {
		config.CallTimeout = defaultCallTimeout
	}

	if sink == nil {
		sink = analytics.NewNoopSink()
	}

	if config.Tracer == nil {
		config.Tracer = noop.NewTracerProvider().Tracer("sweeper")
	}

	return &Sweeper{
		areas:       areas,
		registry:    reg,
		resolver:    resolver,
		publisher:   publisher,
		sink:        sink,
		logger:      logger.With("module", "sweeper"),
		tracer:      config.Tracer,
		concurrency: config.Concurrency,
		callTimeout: config.CallTimeout,
	}
}

// Start begins sweeping immediately and on every interval thereafter. It is
// idempotent: calling Start on a running sweeper does nothing.
func (s *Sweeper) Start(interval time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil {
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.cron = cron.New(cron.WithChain(
		cron.Recover(cron.DefaultLogger),
	))

	_, err := s.cron.AddFunc(fmt.Sprintf("@every %s", interval), func() {
		s.sweepIfIdle(ctx)
	})
	if err != nil {
		s.cron = nil
		cancel()

		return fmt.Errorf("failed to schedule sweep: %w", err)
	}

	s.logger.Info("Starting sweeper", "interval", interval)
	s.cron.Start()

	go s.sweepIfIdle(ctx)

	return nil
}

// Stop halts future ticks immediately. An in-flight sweep is abandoned at
// its next context check; that is safe because each area's persisted writes
// are area-local and sequenced after its own trigger check. Stop is
// idempotent.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron == nil {
		return
	}

	s.logger.Info("Stopping sweeper")
	s.cron.Stop()
	s.cancel()
	s.cron = nil
	s.cancel = nil
}

// sweepIfIdle drops the tick when the previous sweep is still running, so
// slow external APIs bound memory and connection growth instead of queueing
// overlapping sweeps.
func (s *Sweeper) sweepIfIdle(ctx context.Context) {
	if !s.inFlight.CompareAndSwap(false, true) {
		s.logger.Warn("Previous sweep still running, skipping tick")

		return
	}

	defer s.inFlight.Store(false)

	s.RunSweep(ctx)
}

// RunSweep performs one full pass over the enabled areas. A store failure at
// sweep start is logged and naturally retried on the next tick; data-level
// errors inside an area never terminate the pass.
func (s *Sweeper) RunSweep(ctx context.Context) {
	start := time.Now()

	ctx, span := otelhelper.StartSpan(ctx, s.tracer, "sweeper.sweep")
	defer span.End()

	areas, err := s.areas.ListEnabledAreas(ctx)
	if err != nil {
		otelhelper.SetError(span, err)
		s.logger.Error("Failed to load enabled areas, retrying next tick", "error", err)

		return
	}

	if len(areas) == 0 {
		return
	}

	s.logger.Debug("Sweep started", "areas", len(areas))

	var fired atomic.Int64

	group := new(errgroup.Group)
	group.SetLimit(s.concurrency)

	for _, area := range areas {
		group.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					s.logger.Error("Panic while processing area", "area_id", area.ID, "panic", r)
				}
			}()

			if s.processArea(ctx, area) {
				fired.Add(1)
			}

			return nil
		})
	}

	_ = group.Wait()

	duration := time.Since(start)

	span.SetAttributes(
		attribute.Int("areas_evaluated", len(areas)),
		attribute.Int64("areas_fired", fired.Load()),
	)

	s.publish(ctx, "", events.SweepCompleted{
		BaseEvent:      events.NewBaseEvent(events.SweepCompletedEvent, ""),
		AreasEvaluated: len(areas),
		AreasFired:     int(fired.Load()),
		Duration:       duration,
	})

	s.logger.Info("Sweep completed",
		"areas", len(areas),
		"fired", fired.Load(),
		"duration", duration)
}

func (s *Sweeper) publish(ctx context.Context, key string, event eventbus.Event) {
	if s.publisher == nil {
		return
	}

	err := s.publisher.Publish(ctx, key, event)
	if err != nil {
		s.logger.Warn("Failed to publish event", "event_type", event.GetType(), "error", err)
	}
}
