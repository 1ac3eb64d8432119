package settings

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"production-manager/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSettingsOmitsPassword(t *testing.T) {
	app := fiber.New()
	app.Get("/api/db-settings", GetSettingsHandler(config.Database{
		Host:     "db.internal",
		Port:     "5432",
		User:     "factory",
		Password: "secret",
		Name:     "production",
	}))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/db-settings", nil), -1)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"host":"db.internal","user":"factory","database":"production"}`, string(body))
	assert.NotContains(t, string(body), "secret")
}

func TestTestConnection(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		probeErr    error
		wantStatus  string
		wantMessage string
		wantTarget  config.Database
	}{
		{
			name:        "defaults when body is empty",
			body:        "",
			wantStatus:  "success",
			wantMessage: "Database connection successful",
			wantTarget:  config.DefaultDatabase(),
		},
		{
			name:        "supplied fields override defaults",
			body:        `{"host":"10.0.0.5","user":"ops","password":"pw","database":"plant"}`,
			wantStatus:  "success",
			wantMessage: "Database connection successful",
			wantTarget: func() config.Database {
				d := config.DefaultDatabase()
				d.Host, d.User, d.Password, d.Name = "10.0.0.5", "ops", "pw", "plant"
				return d
			}(),
		},
		{
			name:        "probe failure",
			body:        `{"host":"nowhere"}`,
			probeErr:    errors.New("dial tcp: no such host"),
			wantStatus:  "error",
			wantMessage: "Connection failed: dial tcp: no such host",
			wantTarget: func() config.Database {
				d := config.DefaultDatabase()
				d.Host = "nowhere"
				return d
			}(),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got config.Database
			probe := func(_ context.Context, cfg config.Database) error {
				got = cfg
				return tc.probeErr
			}

			app := fiber.New()
			app.Post("/api/db-test", TestConnectionHandler(probe))

			req := httptest.NewRequest(http.MethodPost, "/api/db-test", bytes.NewBufferString(tc.body))
			req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			resp, err := app.Test(req, -1)
			require.NoError(t, err)

			var body TestConnectionResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, tc.wantStatus, body.Status)
			assert.Equal(t, tc.wantMessage, body.Message)
			assert.Equal(t, tc.wantTarget, got)
		})
	}
}

func TestTestConnectionBadBody(t *testing.T) {
	called := false
	app := fiber.New()
	app.Post("/api/db-test", TestConnectionHandler(func(context.Context, config.Database) error {
		called = true
		return nil
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/db-test", bytes.NewBufferString(`{"host":`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var body TestConnectionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "error", body.Status)
	assert.False(t, called)
}
