package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	domainErrors "github.com/polkiloo/driverdesk/internal/domain/errors"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress           string
	StoreURL             string
	StoreAPIKey          string
	ChangeChannel        string
	CodeRotationInterval time.Duration
	ShutdownTimeout      time.Duration
	LogLevel             string
}

const (
	defaultRunAddress           = ":8080"
	defaultChangeChannel        = "inventory_requests_changes"
	defaultCodeRotationInterval = 30 * time.Second
	defaultShutdownTimeout      = 10 * time.Second
	defaultLogLevel             = "info"
	defaultEnvFile              = ".env"
)

// Load parses configuration from an optional dotenv file, environment variables and flags.
func Load() (*Config, error) {
	lookup, err := withDotenv(os.LookupEnv)
	if err != nil {
		return nil, err
	}
	return load(os.Args[1:], lookup)
}

type envLookup func(string) (string, bool)

// withDotenv layers values from ENV_FILE (default .env) under the process environment.
// A missing file is not an error.
func withDotenv(lookup envLookup) (envLookup, error) {
	path := getString(lookup, "ENV_FILE", defaultEnvFile)
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return lookup, nil
		}
		return nil, fmt.Errorf("%w: read env file %s: %v", domainErrors.ErrConfiguration, path, err)
	}
	return func(key string) (string, bool) {
		if v, ok := lookup(key); ok {
			return v, true
		}
		v, ok := values[key]
		return v, ok
	}, nil
}

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:    getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		StoreURL:      getString(lookup, "STORE_URL", ""),
		StoreAPIKey:   getString(lookup, "STORE_API_KEY", ""),
		ChangeChannel: getString(lookup, "CHANGE_CHANNEL", defaultChangeChannel),
		LogLevel:      getString(lookup, "LOG_LEVEL", defaultLogLevel),
	}

	flags := flag.NewFlagSet("driverdesk", flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	var (
		rotationStr        = getString(lookup, "CODE_ROTATION_INTERVAL", defaultCodeRotationInterval.String())
		shutdownTimeoutStr = getString(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout.String())
	)

	flags.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	flags.StringVar(&cfg.StoreURL, "s", cfg.StoreURL, "Order store URL")
	flags.StringVar(&cfg.StoreAPIKey, "k", cfg.StoreAPIKey, "Order store API key")
	flags.StringVar(&cfg.ChangeChannel, "channel", cfg.ChangeChannel, "Change notification channel")
	flags.StringVar(&rotationStr, "rotation-interval", rotationStr, "Interval between pickup code rotations")
	flags.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")

	if err := flags.Parse(args); err != nil {
		return nil, fmt.Errorf("%w: parse flags: %v", domainErrors.ErrConfiguration, err)
	}

	var err error

	if cfg.CodeRotationInterval, err = time.ParseDuration(rotationStr); err != nil {
		return nil, fmt.Errorf("%w: invalid rotation interval: %v", domainErrors.ErrConfiguration, err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("%w: invalid shutdown timeout: %v", domainErrors.ErrConfiguration, err)
	}

	if cfg.CodeRotationInterval <= 0 {
		cfg.CodeRotationInterval = defaultCodeRotationInterval
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if strings.TrimSpace(cfg.ChangeChannel) == "" {
		cfg.ChangeChannel = defaultChangeChannel
	}

	if strings.TrimSpace(cfg.StoreURL) == "" {
		return nil, fmt.Errorf("%w: store URL must be provided (STORE_URL)", domainErrors.ErrConfiguration)
	}

	if strings.TrimSpace(cfg.StoreAPIKey) == "" {
		return nil, fmt.Errorf("%w: store API key must be provided (STORE_API_KEY)", domainErrors.ErrConfiguration)
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}
