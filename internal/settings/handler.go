package settings

import (
	"context"

	"production-manager/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// Prober opens, pings and closes a one-off store connection.
type Prober func(ctx context.Context, cfg config.Database) error

type SettingsResponse struct {
	Host     string `json:"host"`
	User     string `json:"user"`
	Database string `json:"database"`
}

type TestConnectionRequest struct {
	Host     *string `json:"host"`
	Port     *string `json:"port"`
	User     *string `json:"user"`
	Password *string `json:"password"`
	Database *string `json:"database"`
}

type TestConnectionResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// GET /api/db-settings
// The password is never part of the response.
func GetSettingsHandler(db config.Database) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(SettingsResponse{
			Host:     db.Host,
			User:     db.User,
			Database: db.Name,
		})
	}
}

// POST /api/db-test
// Missing fields fall back to the documented defaults, not to the settings
// the server itself runs with.
func TestConnectionHandler(probe Prober) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body TestConnectionRequest
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&body); err != nil {
				return c.JSON(TestConnectionResponse{
					Status:  "error",
					Message: "Connection failed: invalid request body",
				})
			}
		}

		target := body.target()
		if err := probe(c.UserContext(), target); err != nil {
			log.Debug().Err(err).Str("host", target.Host).Str("database", target.Name).Msg("Connection test failed")
			return c.JSON(TestConnectionResponse{
				Status:  "error",
				Message: "Connection failed: " + err.Error(),
			})
		}

		return c.JSON(TestConnectionResponse{
			Status:  "success",
			Message: "Database connection successful",
		})
	}
}

func (r TestConnectionRequest) target() config.Database {
	cfg := config.DefaultDatabase()
	if r.Host != nil {
		cfg.Host = *r.Host
	}
	if r.Port != nil {
		cfg.Port = *r.Port
	}
	if r.User != nil {
		cfg.User = *r.User
	}
	if r.Password != nil {
		cfg.Password = *r.Password
	}
	if r.Database != nil {
		cfg.Name = *r.Database
	}
	return cfg
}
