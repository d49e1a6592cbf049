package config

import (
	"fmt"
	"os"
	"sync"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseURL string

	// HTTP server
	ListenAddr string

	// Woovi/OpenPix payment gateway
	WooviAPIBase string
	WooviAppID   string

	// Tracing
	OTLPEndpoint string // empty disables the exporter
	ServiceName  string

	// Environment
	Environment string // "development", "test" or "production"
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		ListenAddr:   os.Getenv("LISTEN_ADDR"),
		WooviAPIBase: os.Getenv("WOOVI_API_BASE"),
		WooviAppID:   os.Getenv("WOOVI_APP_ID"),
		OTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		ServiceName:  os.Getenv("SERVICE_NAME"),
		Environment:  os.Getenv("ENVIRONMENT"),
	}

	if config.ListenAddr == "" {
		config.ListenAddr = ":8080"
	}
	if config.WooviAPIBase == "" {
		config.WooviAPIBase = "https://api.openpix.com.br/api/v1"
	}
	if config.ServiceName == "" {
		config.ServiceName = "raspadinha"
	}
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
		if config.WooviAppID == "" {
			return nil, fmt.Errorf("WOOVI_APP_ID is required")
		}
	}

	return config, nil
}
