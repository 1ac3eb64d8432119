package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	HTTPPort     string
	CORSOrigins  string
	LogLevel     string
	LogFile      string
	SchemaStrict bool
	Database     Database
}

// Database holds the store connection settings. Password is never echoed
// back by the settings endpoint.
type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	Debug    bool

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Documented defaults for the store connection. The connection test
// endpoint falls back to these, not to the process configuration.
const (
	DefaultDBHost     = "localhost"
	DefaultDBPort     = "5432"
	DefaultDBUser     = "postgres"
	DefaultDBPassword = ""
	DefaultDBName     = "production_manager"
	DefaultDBSSLMode  = "disable"
)

// DefaultDatabase returns the store settings used when nothing is configured.
func DefaultDatabase() Database {
	return Database{
		Host:     DefaultDBHost,
		Port:     DefaultDBPort,
		User:     DefaultDBUser,
		Password: DefaultDBPassword,
		Name:     DefaultDBName,
		SSLMode:  DefaultDBSSLMode,
	}
}

func Load() *Config {
	cfg := &Config{
		HTTPPort:     getEnv("HTTP_PORT", "5000"),
		CORSOrigins:  getEnv("CORS_ALLOWED_ORIGINS", "*"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFile:      getEnv("LOG_FILE", ""),
		SchemaStrict: getBool("SCHEMA_STRICT", true),
		Database: Database{
			Host:            getEnv("DB_HOST", DefaultDBHost),
			Port:            getEnv("DB_PORT", DefaultDBPort),
			User:            getEnv("DB_USER", DefaultDBUser),
			Password:        getEnv("DB_PASSWORD", DefaultDBPassword),
			Name:            getEnv("DB_NAME", DefaultDBName),
			SSLMode:         getEnv("DB_SSLMODE", DefaultDBSSLMode),
			Debug:           getBool("DB_DEBUG", false),
			MaxOpenConns:    getInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		},
	}

	if cfg.Database.Password == "" {
		log.Warn().Msg("DB_PASSWORD is empty, set it for anything beyond local development")
	}
	if cfg.CORSOrigins == "*" {
		log.Warn().Msg("CORS_ALLOWED_ORIGINS defaults to '*', every origin is allowed")
	}

	return cfg
}

// DSN renders the settings as a key=value Postgres connection string.
func (d Database) DSN() string {
	parts := []string{
		"host=" + quote(d.Host),
		"port=" + quote(d.Port),
		"user=" + quote(d.User),
		"dbname=" + quote(d.Name),
		"sslmode=" + quote(d.SSLMode),
	}
	if d.Password != "" {
		parts = append(parts, "password="+quote(d.Password))
	}
	return strings.Join(parts, " ")
}

// quote escapes a value for libpq key=value syntax.
func quote(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("invalid boolean, using default")
		return def
	}
	return b
}

func getInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("invalid integer, using default")
		return def
	}
	return n
}

func getDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("invalid duration, using default")
		return def
	}
	return d
}
