package server_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"production-manager/internal/config"
	"production-manager/internal/database/dbtest"
	"production-manager/internal/server"
	"production-manager/internal/server/servertest"
	"production-manager/internal/settings"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth(t *testing.T) {
	app, pool := servertest.New(t)

	resp, body := servertest.Do(t, app, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))

	require.NoError(t, pool.Close())
	resp, body = servertest.Do(t, app, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.JSONEq(t, `{"status":"unavailable"}`, string(body))
}

func TestCORSPreflight(t *testing.T) {
	app, _ := servertest.New(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/products", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), "PUT")
}

func TestCORSHeaderOnResponses(t *testing.T) {
	app, _ := servertest.New(t)

	req := httptest.NewRequest(http.MethodGet, "/api/materials", nil)
	req.Header.Set("Origin", "http://example.com")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestUnknownRoute(t *testing.T) {
	app, _ := servertest.New(t)

	resp, body := servertest.Do(t, app, http.MethodGet, "/api/suppliers", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.NotEmpty(t, servertest.Message(t, body))
}

func TestDBSettingsAndProbeRoutes(t *testing.T) {
	pool := dbtest.Open(t)
	cfg := &config.Config{CORSOrigins: "*", Database: config.DefaultDatabase()}
	cfg.Database.Password = "hunter2"

	var probed settings.Prober = func(_ context.Context, db config.Database) error {
		if db.Host == "bad" {
			return errors.New("refused")
		}
		return nil
	}
	app := server.New(cfg, pool, probed)

	resp, body := servertest.Do(t, app, http.MethodGet, "/api/db-settings", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"host":"localhost","user":"postgres","database":"production_manager"}`, string(body))

	resp, body = servertest.Do(t, app, http.MethodPost, "/api/db-test", map[string]string{"host": "bad"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"error","message":"Connection failed: refused"}`, string(body))

	resp, body = servertest.Do(t, app, http.MethodPost, "/api/db-test", map[string]string{"host": "good"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"success","message":"Database connection successful"}`, string(body))
}
