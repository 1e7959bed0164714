package config

import (
	"fmt"
	"time"
)

type Config struct {
	Server   Server   `yaml:"server" envconfig:"SERVER"`
	Postgres Postgres `yaml:"postgres" envconfig:"POSTGRES"`
	Redis    Redis    `yaml:"redis" envconfig:"REDIS"`
	Storage  Storage  `yaml:"storage" envconfig:"STORAGE"`
	Pipeline Pipeline `yaml:"pipeline" envconfig:"PIPELINE"`
	Feed     Feed     `yaml:"feed" envconfig:"FEED"`
	Logging  Logging  `yaml:"logging" envconfig:"LOG"`
}

type Server struct {
	Port            int           `yaml:"port" split_words:"true" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" split_words:"true"`
	WriteTimeout    time.Duration `yaml:"write_timeout" split_words:"true"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" split_words:"true"`
}

type Postgres struct {
	Host     string `yaml:"host" split_words:"true"`
	Port     int    `yaml:"port" split_words:"true"`
	User     string `yaml:"user" split_words:"true"`
	Password string `yaml:"password" split_words:"true"`
	Database string `yaml:"database" split_words:"true"`
	SSLMode  string `yaml:"sslmode" split_words:"true"`
}

type Redis struct {
	Addr     string `yaml:"addr" split_words:"true"`
	Password string `yaml:"password" split_words:"true"`
	DB       int    `yaml:"db" split_words:"true" validate:"min=0"`
}

// Storage selects the backend of each store.
type Storage struct {
	History string `yaml:"history" split_words:"true" validate:"oneof=memory redis"`
	Results string `yaml:"results" split_words:"true" validate:"oneof=memory redis postgres"`
	Jobs    string `yaml:"jobs" split_words:"true" validate:"oneof=memory postgres"`
}

type Pipeline struct {
	WindowSize int           `yaml:"window_size" split_words:"true" validate:"min=1,max=10"`
	Partitions int           `yaml:"partitions" split_words:"true" validate:"min=1"`
	Workers    int           `yaml:"workers" split_words:"true" validate:"min=1"`
	Interval   time.Duration `yaml:"interval" split_words:"true" validate:"min=0"`
}

type Feed struct {
	Mode         string        `yaml:"mode" split_words:"true" validate:"oneof=live snapshot test"`
	LiveURL      string        `yaml:"live_url" split_words:"true" validate:"omitempty,url"`
	SnapshotPath string        `yaml:"snapshot_path" split_words:"true"`
	Timeout      time.Duration `yaml:"timeout" split_words:"true"`
	RetryMax     int           `yaml:"retry_max" split_words:"true" validate:"min=0"`
	LoadOnStart  bool          `yaml:"load_on_start" split_words:"true"`
	Test         TestFeed      `yaml:"test" envconfig:"TEST"`
}

type TestFeed struct {
	Currencies []string `yaml:"currencies" split_words:"true" validate:"dive,len=3,alpha"`
	Days       int      `yaml:"days" split_words:"true" validate:"min=0"`
	Seed       int64    `yaml:"seed" split_words:"true"`
}

type Logging struct {
	Level  string `yaml:"level" split_words:"true" validate:"omitempty,oneof=debug info warn error"`
	Format string `yaml:"format" split_words:"true" validate:"omitempty,oneof=json text pretty"`
}

func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Postgres.Host, c.Postgres.Port, c.Postgres.User,
		c.Postgres.Password, c.Postgres.Database, c.Postgres.SSLMode,
	)
}

// UsesPostgres reports whether any store is backed by postgres.
func (c *Config) UsesPostgres() bool {
	return c.Storage.Results == "postgres" || c.Storage.Jobs == "postgres"
}

func (c *Config) UsesRedis() bool {
	return c.Storage.History == "redis" || c.Storage.Results == "redis"
}
