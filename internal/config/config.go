package config

import (
	"time"
	// Tarot.Timezone must resolve on hosts without a zoneinfo database.
	_ "time/tzdata"
)

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	Tarot    TarotConfig    `mapstructure:"tarot" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	// ShutdownTimeoutSeconds bounds graceful shutdown after SIGINT/SIGTERM.
	ShutdownTimeoutSeconds int `mapstructure:"shutdown_timeout_seconds" validate:"gt=0,lte=300"`
}

// Database drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	// Driver selects the storage backend.
	Driver string `mapstructure:"driver" validate:"required,oneof=postgres sqlite"`
	// URL is a postgres:// connection URL, or a file path for sqlite.
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0,lte=43200"`
}

// TokenLifetime returns the access token lifetime as a duration.
func (a AuthConfig) TokenLifetime() time.Duration {
	return time.Duration(a.TokenLifetimeMinutes) * time.Minute
}

// TarotConfig contains the divination policy settings.
type TarotConfig struct {
	// ReversalProbability is the chance each drawn card lands reversed.
	ReversalProbability float64 `mapstructure:"reversal_probability" validate:"gte=0,lte=1"`
	// Timezone decides which calendar day "today" is for the daily fortune.
	Timezone string `mapstructure:"timezone" validate:"required,timezone"`
	// CatalogPath optionally replaces the embedded card catalog.
	CatalogPath string `mapstructure:"catalog_path" validate:"omitempty,file"`
}

// Location resolves Timezone. Load has already validated it.
func (t TarotConfig) Location() (*time.Location, error) {
	return time.LoadLocation(t.Timezone)
}
