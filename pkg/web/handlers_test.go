package web_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/dukex/areion/pkg/credentials"
	"github.com/dukex/areion/pkg/integrations/logmsg"
	"github.com/dukex/areion/pkg/integrations/timer"
	"github.com/dukex/areion/pkg/models"
	"github.com/dukex/areion/pkg/persistence/file"
	"github.com/dukex/areion/pkg/registry"
	"github.com/dukex/areion/pkg/services"
	"github.com/dukex/areion/pkg/web"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestApp(t *testing.T) *fiber.App {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	persistence := file.NewPersistence(t.TempDir())

	reg := registry.NewRegistry(logger)
	require.NoError(t, reg.RegisterService(timer.NewService()))
	require.NoError(t, reg.RegisterService(logmsg.NewService()))

	resolver := credentials.NewStoreResolver(persistence.ConnectionRepository())
	areaService := services.NewArea(persistence, reg, resolver, logger)
	connectionService := services.NewConnection(persistence, reg)

	handlers := web.NewAPIHandlers(areaService, connectionService, validator.New(validator.WithRequiredStructEnabled()), reg)

	app := fiber.New()

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

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()

	var reader io.Reader

	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)

		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req
}

func createAreaRequest() web.CreateAreaRequest {
	return web.CreateAreaRequest{
		Name:  "hourly log line",
		Owner: "test-user",
		Trigger: web.TriggerBindingRequest{
			Service:    "timer",
			Trigger:    "interval",
			Parameters: map[string]any{"every": "1h"},
		},
		Reactions: []web.ReactionBindingRequest{
			{
				Service:    "log",
				Reaction:   "write",
				Parameters: map[string]any{"message": "tick {{fired_at}}"},
			},
		},
	}
}

func createArea(t *testing.T, app *fiber.App) models.Area {
	t.Helper()

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/areas/", createAreaRequest()))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var area models.Area

	body, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(body, &area))

	return area
}

func TestCreateArea_Success(t *testing.T) {
	app := setupTestApp(t)

	area := createArea(t, app)

	assert.NotEmpty(t, area.ID)
	assert.NotEmpty(t, area.Trigger.ID)
	assert.True(t, area.Enabled)
	assert.Equal(t, "timer", area.Trigger.Service)
	assert.Len(t, area.Reactions, 1)
}

func TestCreateArea_UnknownCapabilityIsRejected(t *testing.T) {
	app := setupTestApp(t)

	req := createAreaRequest()
	req.Trigger.Trigger = "nonexistent"

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/areas/", req))

	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateArea_MissingParametersRejectedBySchema(t *testing.T) {
	app := setupTestApp(t)

	req := createAreaRequest()
	req.Trigger.Parameters = map[string]any{}

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/areas/", req))

	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetArea_RoundTripAndNotFound(t *testing.T) {
	app := setupTestApp(t)
	created := createArea(t, app)

	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/areas/"+created.ID, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(jsonRequest(t, http.MethodGet, "/areas/missing", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdateArea_PartialUpdate(t *testing.T) {
	app := setupTestApp(t)
	created := createArea(t, app)

	newName := "renamed area"

	resp, err := app.Test(jsonRequest(t, http.MethodPatch, "/areas/"+created.ID, web.UpdateAreaRequest{Name: &newName}))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated models.Area

	body, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(body, &updated))

	assert.Equal(t, "renamed area", updated.Name)
	assert.Equal(t, created.Trigger.ID, updated.Trigger.ID)
}

func TestEnableDisableArea(t *testing.T) {
	app := setupTestApp(t)
	created := createArea(t, app)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/areas/"+created.ID+"/disable", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var area models.Area

	body, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(body, &area))
	assert.False(t, area.Enabled)

	resp, err = app.Test(jsonRequest(t, http.MethodPost, "/areas/"+created.ID+"/enable", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, _ = io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(body, &area))
	assert.True(t, area.Enabled)
}

func TestDeleteArea(t *testing.T) {
	app := setupTestApp(t)
	created := createArea(t, app)

	resp, err := app.Test(jsonRequest(t, http.MethodDelete, "/areas/"+created.ID, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, err = app.Test(jsonRequest(t, http.MethodGet, "/areas/"+created.ID, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetServices_ReturnsCatalogWithSchemas(t *testing.T) {
	app := setupTestApp(t)

	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/services", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var catalog struct {
		Services []web.ServiceResponse `json:"services"`
	}

	body, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(body, &catalog))
	require.Len(t, catalog.Services, 2)

	assert.Equal(t, "log", catalog.Services[0].ID)
	assert.Equal(t, "timer", catalog.Services[1].ID)
	require.Len(t, catalog.Services[1].Triggers, 1)
	assert.Equal(t, "interval", catalog.Services[1].Triggers[0].Name)
	assert.NotEmpty(t, catalog.Services[1].Triggers[0].Schema)
}

func TestConnections_CreateHidesSecrets(t *testing.T) {
	app := setupTestApp(t)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/connections/", web.CreateConnectionRequest{
		Service:     "timer",
		Owner:       "test-user",
		AccessToken: "secret-token",
	}))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.NotContains(t, string(body), "secret-token")

	var connection web.ConnectionResponse

	require.NoError(t, json.Unmarshal(body, &connection))
	assert.NotEmpty(t, connection.ID)

	resp, err = app.Test(jsonRequest(t, http.MethodDelete, "/connections/"+connection.ID, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestConnections_UnknownServiceRejected(t *testing.T) {
	app := setupTestApp(t)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/connections/", web.CreateConnectionRequest{
		Service:     "nonexistent",
		Owner:       "test-user",
		AccessToken: "token",
	}))

	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHealthCheck(t *testing.T) {
	app := setupTestApp(t)

	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/health", nil))

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
