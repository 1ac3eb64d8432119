package server

import (
	"errors"
	"strings"
	"time"

	"production-manager/internal/audit"
	"production-manager/internal/config"
	"production-manager/internal/database"
	"production-manager/internal/inventory"
	"production-manager/internal/reports"
	"production-manager/internal/settings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog/log"
)

// New builds the HTTP application. A nil prober falls back to
// database.Probe.
func New(cfg *config.Config, pool *database.Pool, prober settings.Prober) *fiber.App {
	if prober == nil {
		prober = database.Probe
	}

	app := fiber.New(fiber.Config{
		AppName:               "production-manager",
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	app.Use(accessLog)
	app.Use(recover.New())

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	api.Get("/health", healthHandler(pool))

	// Products
	api.Get("/products", inventory.ListProductsHandler(pool))
	api.Post("/products", inventory.CreateProductHandler(pool))
	api.Put("/products/:id", inventory.UpdateProductHandler(pool))
	api.Delete("/products/:id", inventory.DeleteProductHandler(pool))

	// Materials
	api.Get("/materials", inventory.ListMaterialsHandler(pool))
	api.Post("/materials", inventory.CreateMaterialHandler(pool))
	api.Put("/materials/:id", inventory.UpdateMaterialHandler(pool))
	api.Delete("/materials/:id", inventory.DeleteMaterialHandler(pool))

	// Production logs & reports
	api.Get("/logs", audit.ListLogsHandler(pool))
	api.Get("/reports/:kind", reports.ReportHandler(pool))

	// Connection settings
	api.Get("/db-settings", settings.GetSettingsHandler(cfg.Database))
	api.Post("/db-test", settings.TestConnectionHandler(prober))

	return app
}

func errorHandler(c *fiber.Ctx, err error) error {
	var e *fiber.Error
	if errors.As(err, &e) {
		if e.Code >= fiber.StatusInternalServerError {
			log.Error().Str("method", c.Method()).Str("path", c.Path()).Msg(e.Message)
		}
		return c.Status(e.Code).JSON(fiber.Map{
			"error": e.Message,
		})
	}
	log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("Unexpected error")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Unexpected server error",
	})
}

func accessLog(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	status := c.Response().StatusCode()
	if err != nil {
		var e *fiber.Error
		if errors.As(err, &e) {
			status = e.Code
		} else {
			status = fiber.StatusInternalServerError
		}
	}

	log.Debug().
		Str("method", c.Method()).
		Str("path", c.Path()).
		Int("status", status).
		Dur("duration", time.Since(start)).
		Str("remote", c.IP()).
		Msg("Request")
	return err
}

// GET /api/health
func healthHandler(pool *database.Pool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := pool.Ping(c.UserContext()); err != nil {
			log.Warn().Err(err).Msg("Health check failed")
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	}
}
