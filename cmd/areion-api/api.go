// Package main provides the Areion API server implementation.
package main

import (
	"log/slog"
	"strconv"

	"github.com/dukex/areion/pkg/credentials"
	"github.com/dukex/areion/pkg/persistence"
	"github.com/dukex/areion/pkg/registry"
	"github.com/dukex/areion/pkg/services"
	"github.com/dukex/areion/pkg/web"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"
)

type API struct {
	logger      *slog.Logger
	persistence persistence.Persistence
	registry    *registry.Registry
	validate    *validator.Validate
}

func NewAPI(
	logger *slog.Logger,
	persistence persistence.Persistence,
	registry *registry.Registry,
) *API {
	return &API{
		persistence: persistence,
		logger:      logger,
		registry:    registry,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App() *fiber.App {
	resolver := credentials.NewStoreResolver(a.persistence.ConnectionRepository())
	areaService := services.NewArea(a.persistence, a.registry, resolver, a.logger)
	connectionService := services.NewConnection(a.persistence, a.registry)

	handlers := web.NewAPIHandlers(areaService, connectionService, a.validate, a.registry)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Areion API")
	})

	areas := app.Group("/areas")
	areas.Get("/", handlers.GetAreas)
	areas.Post("/", handlers.CreateArea)
	areas.Get("/:id", handlers.GetArea)
	areas.Patch("/:id", handlers.UpdateArea)
	areas.Delete("/:id", handlers.DeleteArea)
	areas.Post("/:id/enable", handlers.EnableArea)
	areas.Post("/:id/disable", handlers.DisableArea)

	connections := app.Group("/connections")
	connections.Post("/", handlers.CreateConnection)
	connections.Get("/:id", handlers.GetConnection)
	connections.Delete("/:id", handlers.DeleteConnection)

	app.Get("/services", handlers.GetServices)
	app.Get("/health", handlers.HealthCheck)

	return app
}

func (a *API) Start(port int) error {
	app := a.App()

	err := app.Listen(":" + strconv.Itoa(port))

	return err
}
