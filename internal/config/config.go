// Package config loads the server configuration from an optional .env file, a YAML file and
// ESSENCE_* environment variables, in that order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"essence-site/internal/models"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix         = "ESSENCE_"
	maxConfigFileSize = 1024 * 1024

	// DefaultSessionSecret is only meant for local development.
	DefaultSessionSecret = "essence-secret-key"
)

// Load reads the configuration. A missing config file is not an error, every field has a default.
//
// Environment variables map onto keys by splitting on the first underscore after the prefix:
//
//	ESSENCE_SERVER_PORT     -> server.port
//	ESSENCE_SELFCONTAINED   -> selfcontained
//	ESSENCE_SESSION_SECRET  -> session.secret
func Load(path string) (*models.ConfigFile, error) {
	// .env is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	k := koanf.New(".")

	content, err := os.ReadFile(path)
	switch {
	case err == nil:
		if len(content) > maxConfigFileSize {
			return nil, fmt.Errorf("config file too large: %d bytes (max %d)", len(content), maxConfigFileSize)
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := defaults()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(cfg)

	// every account can edit the site, with a configured admin nobody else needs one
	if cfg.Admin.Username != "" && !k.Exists("allowregistration") {
		cfg.AllowRegistration = false
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func envKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, envPrefix))
	parts := strings.SplitN(lower, "_", 2)
	if len(parts) == 1 {
		return lower
	}
	return parts[0] + "." + parts[1]
}

func defaults() *models.ConfigFile {
	return &models.ConfigFile{
		Server: models.ServerConfig{
			Address:           "127.0.0.1",
			Port:              "5000",
			PrintHttpRequests: true,
		},
		Log: models.LogConfig{
			Level: "info",
			File:  "app.log",
		},
		Session: models.SessionConfig{
			Secret:   DefaultSessionSecret,
			TTLHours: 24,
		},
		SelfContained: true,
		Db: models.DbConfig{
			Address: "localhost",
			Port:    "3306",
		},
		Redis: models.RedisConfig{
			Address: "localhost:6379",
		},
		AllowRegistration: true,
	}
}

// applyDefaults fills fields that were explicitly set to their zero value.
func applyDefaults(cfg *models.ConfigFile) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = "5000"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Session.Secret == "" {
		cfg.Session.Secret = DefaultSessionSecret
	}
	if cfg.Session.TTLHours <= 0 {
		cfg.Session.TTLHours = 24
	}
}

func Validate(cfg *models.ConfigFile) error {
	port, err := strconv.Atoi(cfg.Server.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("server port %q is invalid", cfg.Server.Port)
	}

	if (cfg.Server.TlsCert == "") != (cfg.Server.TlsKey == "") {
		return fmt.Errorf("both tls cert and tls key have to be set")
	}

	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log level %q is unsupported", cfg.Log.Level)
	}

	if !cfg.SelfContained && cfg.Db.Database == "" {
		return fmt.Errorf("db database is required when not self contained")
	}

	if (cfg.Admin.Username == "") != (cfg.Admin.Password == "") {
		return fmt.Errorf("both admin username and admin password have to be set")
	}

	if cfg.SnowflakeWorkerID < 0 {
		return fmt.Errorf("snowflake worker id can't be negative")
	}

	return nil
}
