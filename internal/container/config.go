// Package container provides dependency injection and lifecycle management
// for the ProcureFlow registry.
package container

import (
	"fmt"
	"time"
)

// Storage drivers for the record and user collections
const (
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// Config holds all configuration for the Container.
type Config struct {
	Database DatabaseConfig
	Storage  StorageConfig
	Server   ServerConfig
	Import   ImportConfig

	// Seed writes the example record into an empty registry on start
	Seed bool
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	// Driver is sqlite or memory; memory keeps nothing across restarts
	Driver string

	// Path to SQLite database file
	Path string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	// MigrationsDir overrides the embedded migrations when set
	MigrationsDir string
}

// StorageConfig holds export file settings.
type StorageConfig struct {
	// ExportDir receives files written by the CLI export commands
	ExportDir string

	// Timezone used for timestamps printed in PDFs
	Timezone string
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Mode is the gin mode: debug, release or test
	Mode string
}

// ImportConfig limits spreadsheet and attachment uploads.
type ImportConfig struct {
	MaxUploadBytes int64
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver:          DriverSQLite,
			Path:            "data/procureflow.db",
			MaxOpenConns:    1,
			MaxIdleConns:    1,
			ConnMaxLifetime: 0,
		},
		Storage: StorageConfig{
			ExportDir: "exports",
			Timezone:  "UTC",
		},
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			Mode:         "release",
		},
		Import: ImportConfig{
			MaxUploadBytes: 10 << 20,
		},
		Seed: true,
	}
}

// Validate checks that required configuration values are present.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("database.path is required")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("database.driver must be %s or %s, got %q", DriverSQLite, DriverMemory, c.Database.Driver)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}

	if c.Import.MaxUploadBytes <= 0 {
		return fmt.Errorf("import.max_upload_bytes must be positive")
	}

	if _, err := time.LoadLocation(c.Storage.Timezone); err != nil {
		return fmt.Errorf("storage.timezone: %w", err)
	}

	return nil
}

// Location returns the configured export timezone, UTC when unset
func (c StorageConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
