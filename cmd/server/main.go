package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"production-manager/internal/database"
	"production-manager/internal/server"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 15 * time.Second

var (
	version = "dev"
	commit  = "none"
)

// CLI flags
var (
	port     string
	logLevel string
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "production-manager",
		Short:        "Production manager API server",
		Long:         `Serves the products, materials and production log API over HTTP.`,
		SilenceUsage: true,
		RunE:         run,
	}

	rootCmd.PersistentFlags().StringVarP(&port, "port", "p", "", "HTTP port (overrides HTTP_PORT)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides LOG_LEVEL)")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create missing tables and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(port, logLevel)
			db, err := database.Open(cfg.Database)
			if err != nil {
				return err
			}
			defer database.NewPool(db).Close()
			return database.EnsureSchema(db)
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "check-db",
		Short: "Open, ping and close one connection with the configured settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(port, logLevel)
			if err := database.Probe(cmd.Context(), cfg.Database); err != nil {
				return fmt.Errorf("connection failed: %w", err)
			}
			fmt.Println("Database connection successful")
			return nil
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("production-manager %s (commit: %s)\n", version, commit)
		},
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(port, logLevel)

	db, err := database.Open(cfg.Database)
	if err != nil {
		return err
	}

	if err := prepareSchema(db, cfg.SchemaStrict); err != nil {
		return err
	}

	pool := database.NewPool(db)
	app := server.New(cfg, pool, nil)

	go func() {
		addr := ":" + cfg.HTTPPort
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := app.Listen(addr); err != nil {
			log.Fatal().Err(err).Msg("HTTP server stopped")
		}
	}()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			// In-flight requests drain before the pool goes away.
			"http": func(ctx context.Context) error {
				log.Info().Msg("Shutting down HTTP server")
				if err := app.ShutdownWithContext(ctx); err != nil {
					return err
				}
				return pool.Close()
			},
		},
	)

	exitCode := <-wait
	log.Info().Int("code", exitCode).Msg("Server exited")
	os.Exit(exitCode)
	return nil
}
