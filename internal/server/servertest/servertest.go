// Package servertest drives the full HTTP application against a throwaway
// store in package tests.
package servertest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"production-manager/internal/config"
	"production-manager/internal/database"
	"production-manager/internal/database/dbtest"
	"production-manager/internal/server"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

// New returns an application wired to a fresh SQLite store. Connection
// tests never leave the process: the prober always succeeds.
func New(t *testing.T) (*fiber.App, *database.Pool) {
	t.Helper()

	pool := dbtest.Open(t)
	cfg := &config.Config{
		HTTPPort:    "0",
		CORSOrigins: "*",
		LogLevel:    "error",
		Database:    config.DefaultDatabase(),
	}
	app := server.New(cfg, pool, func(context.Context, config.Database) error { return nil })
	return app, pool
}

// Do sends a request with an optional JSON body and returns the response
// with its body already read.
func Do(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(t, err)
			reader = bytes.NewReader(raw)
		}
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

// DecodeJSON unmarshals a response body into v.
func DecodeJSON(t *testing.T, data []byte, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(data, v), "body: %s", data)
}

// Message extracts {"message": ...} or {"error": ...} from a response body.
func Message(t *testing.T, data []byte) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	DecodeJSON(t, data, &body)
	if body.Error != "" {
		return body.Error
	}
	return body.Message
}
