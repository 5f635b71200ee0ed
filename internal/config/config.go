// Package config holds the settings shared by the liturgy commands.
package config

import (
	"fmt"
	"time"

	apperrors "github.com/FocuswithJustin/JuniperLiturgy/core/errors"
	"github.com/FocuswithJustin/JuniperLiturgy/internal/logging"
)

// Store backends.
const (
	BackendSQLite = "sqlite"
	BackendMongo  = "mongo"
	BackendMemory = "memory"
)

// Config holds store and logging configuration.
type Config struct {
	Backend       string        // sqlite, mongo or memory
	DBPath        string        // SQLite database file
	MongoURI      string        // MongoDB connection string
	MongoDatabase string        // MongoDB database name
	MongoTimeout  time.Duration // Per-operation MongoDB timeout
	LogLevel      string        // debug, info, warn or error
	LogFormat     string        // json or text
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Backend:       BackendSQLite,
		DBPath:        "liturgy.db",
		MongoURI:      "mongodb://localhost:27017",
		MongoDatabase: "liturgy",
		MongoTimeout:  10 * time.Second,
		LogLevel:      "info",
		LogFormat:     "text",
	}
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendSQLite:
		if c.DBPath == "" {
			return apperrors.NewValidation("db", "database path is required for the sqlite backend")
		}
	case BackendMongo:
		if c.MongoURI == "" {
			return apperrors.NewValidation("mongo-uri", "connection string is required for the mongo backend")
		}
		if c.MongoDatabase == "" {
			return apperrors.NewValidation("mongo-db", "database name is required for the mongo backend")
		}
		if c.MongoTimeout <= 0 {
			return apperrors.NewValidation("mongo-timeout", "must be positive")
		}
	case BackendMemory:
	default:
		return apperrors.NewValidation("store", fmt.Sprintf("unknown backend %q", c.Backend))
	}
	if _, ok := logging.ParseLevel(c.LogLevel); !ok {
		return apperrors.NewValidation("log-level", fmt.Sprintf("unknown level %q", c.LogLevel))
	}
	if _, ok := logging.ParseFormat(c.LogFormat); !ok {
		return apperrors.NewValidation("log-format", fmt.Sprintf("unknown format %q", c.LogFormat))
	}
	return nil
}

// InitLogging configures the default logger from c.
func (c Config) InitLogging() {
	level, _ := logging.ParseLevel(c.LogLevel)
	format, _ := logging.ParseFormat(c.LogFormat)
	logging.InitLogger(level, format)
}
