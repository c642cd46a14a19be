// Package main provides the Areion sweep engine daemon.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dukex/areion/pkg/cmd"
	"github.com/dukex/areion/pkg/credentials"
	"github.com/dukex/areion/pkg/events"
	"github.com/dukex/areion/pkg/log"
	"github.com/dukex/areion/pkg/otelhelper"
	"github.com/dukex/areion/pkg/sweep"
	"github.com/google/uuid"
	cli "github.com/urfave/cli/v3"
)

const (
	defaultSweepInterval = time.Minute
	defaultCallTimeout   = 10 * time.Second
)

func main() {
	command := &cli.Command{
		Name:                  "areion-engine",
		EnableShellCompletion: true,
		Usage:                 "Run the sweep engine that evaluates areas and executes reactions",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "engine-id",
				Aliases: []string{"id"},
				Usage:   "Custom engine ID (auto-generated if not provided)",
				Value:   "",
				Sources: cli.EnvVars("ENGINE_ID"),
			},
			&cli.StringFlag{
				Name:     "database-url",
				Usage:    "Database connection URL for persistence (file:// or postgres://)",
				Required: true,
				Sources:  cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Event bus type (kafka, gochannel)",
				Value:   "gochannel",
				Sources: cli.EnvVars("EVENT_BUS_TYPE"),
			},
			&cli.StringFlag{
				Name:    "redis-url",
				Usage:   "Redis URL for firing analytics (disabled when empty)",
				Value:   "",
				Sources: cli.EnvVars("REDIS_URL"),
			},
			&cli.DurationFlag{
				Name:    "sweep-interval",
				Usage:   "Time between sweeps",
				Value:   defaultSweepInterval,
				Sources: cli.EnvVars("SWEEP_INTERVAL"),
			},
			&cli.IntFlag{
				Name:    "concurrency",
				Usage:   "Maximum areas evaluated in parallel within one sweep",
				Value:   0,
				Sources: cli.EnvVars("SWEEP_CONCURRENCY"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: run,
	}

	err := command.Run(context.Background(), os.Args)
	if err != nil {
		panic(err)
	}
}

func run(ctx context.Context, command *cli.Command) error {
	log.Setup(command.String("log-level"))

	engineID := command.String("engine-id")
	if engineID == "" {
		engineID = "engine-" + uuid.New().String()[:8]
	}

	logger := log.WithModule("areion-engine").With("engineId", engineID)

	logger.InfoContext(ctx, "Initializing Areion Engine")

	tracer, err := otelhelper.NewTracer(ctx, "areion-engine")
	if err != nil {
		return err
	}

	registry, err := cmd.NewRegistry(logger)
	if err != nil {
		return err
	}

	eventBus, err := cmd.NewEventBus(command.String("event-bus"), logger)
	if err != nil {
		return err
	}

	defer func() {
		err := eventBus.Close()
		if err != nil {
			logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
		}
	}()

	err = eventBus.Handle(events.ReactionFailedEvent, func(ctx context.Context, event any) error {
		failed, ok := event.(*events.ReactionFailed)
		if !ok {
			return nil
		}

		logger.WarnContext(ctx, "Reaction failed",
			"area_id", failed.AreaID,
			"service", failed.Service,
			"reaction", failed.Reaction,
			"error", failed.Error)

		return nil
	})
	if err != nil {
		return err
	}

	err = eventBus.Subscribe(ctx)
	if err != nil {
		return err
	}

	persistence, err := cmd.NewPersistence(ctx, logger, command.String("database-url"))
	if err != nil {
		return err
	}

	defer func() {
		err := persistence.Close(ctx)
		if err != nil {
			logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
		}
	}()

	sink, err := cmd.NewAnalytics(command.String("redis-url"))
	if err != nil {
		return err
	}

	sweeper := sweep.NewSweeper(
		sweep.Config{
			Concurrency: command.Int("concurrency"),
			CallTimeout: defaultCallTimeout,
			Tracer:      tracer,
		},
		persistence.AreaRepository(),
		registry,
		credentials.NewStoreResolver(persistence.ConnectionRepository()),
		eventBus,
		sink,
		logger,
	)

	err = sweeper.Start(command.Duration("sweep-interval"))
	if err != nil {
		return err
	}

	signalCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	<-signalCtx.Done()

	logger.InfoContext(ctx, "Shutting down Areion Engine")
	sweeper.Stop()

	return nil
}
