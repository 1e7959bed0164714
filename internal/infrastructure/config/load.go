package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Default returns the settings used when the file leaves a value out.
func Default() *Config {
	return &Config{
		Server: Server{
			Port:            8080,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Postgres: Postgres{Host: "localhost", Port: 5432, User: "postgres", Database: "fxaverages", SSLMode: "disable"},
		Redis:    Redis{Addr: "localhost:6379"},
		Storage:  Storage{History: "memory", Results: "memory", Jobs: "memory"},
		Pipeline: Pipeline{WindowSize: 10, Partitions: 4, Workers: 4},
		Feed: Feed{
			Mode:         "snapshot",
			SnapshotPath: "data/eurofxref-hist-90d-20170524.xml",
			Timeout:      10 * time.Second,
			RetryMax:     3,
			Test:         TestFeed{Currencies: []string{"USD", "GBP", "JPY", "CHF"}, Days: 20, Seed: 1},
		},
		Logging: Logging{Level: "info", Format: "json"},
	}
}

// Load reads the YAML file at path over the defaults, applies .env and the
// environment, then validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Environment variables override values from the file.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
