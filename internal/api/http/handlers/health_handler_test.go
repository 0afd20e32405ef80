package handlers_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/marketplace-service/internal/api/http/handlers"
	"github.com/spec-kit/marketplace-service/internal/persistence"
)

func TestHealthLive(t *testing.T) {
	h := handlers.NewHealthHandler("marketplace-service", "test", &persistence.Postgres{}, &persistence.Redis{})

	app := fiber.New()
	app.Get("/health/live", h.Live)

	resp, err := app.Test(httptest.NewRequest("GET", "/health/live", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body struct {
		Status  string `json:"status"`
		Service string `json:"service"`
	}
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "alive", body.Status)
	assert.Equal(t, "marketplace-service", body.Service)
}

func TestHealthReadyDependenciesDown(t *testing.T) {
	// neither dependency is configured, so readiness must fail
	h := handlers.NewHealthHandler("marketplace-service", "test", &persistence.Postgres{}, &persistence.Redis{})

	app := fiber.New()
	app.Get("/health/ready", h.Ready)

	resp, err := app.Test(httptest.NewRequest("GET", "/health/ready", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body struct {
		Error struct {
			Code    string            `json:"code"`
			Details map[string]string `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "DEPENDENCY_UNAVAILABLE", body.Error.Code)
	assert.Contains(t, body.Error.Details, "postgres")
	assert.Contains(t, body.Error.Details, "redis")
}
