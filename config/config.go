/*
Package config loads runtime configuration from the environment.

PURPOSE:
  One struct for everything tunable at deploy time: HTTP server timeouts,
  database path, and scheduling policy knobs. Parsed once at startup with
  caarlos0/env; defaults make a bare `go run ./cmd/server` work.

ENVIRONMENT VARIABLES:
  ENVIRONMENT                      development | production
  SERVER_PORT                      HTTP port (default 8080)
  SERVER_READ_TIMEOUT              seconds (default 15)
  SERVER_WRITE_TIMEOUT             seconds (default 15)
  SERVER_IDLE_TIMEOUT              seconds (default 60)
  SERVER_SHUTDOWN_TIMEOUT          seconds (default 30)
  DATABASE_PATH                    SQLite path, ":memory:" allowed
  SCHEDULE_WEEK_ANCHOR             weekday name the work week starts on

SEE ALSO:
  - cmd/server/main.go: Loads config and wires dependencies
*/
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Server      struct {
		Port            int `env:"PORT" envDefault:"8080"`
		ReadTimeout     int `env:"READ_TIMEOUT" envDefault:"15"`
		WriteTimeout    int `env:"WRITE_TIMEOUT" envDefault:"15"`
		IdleTimeout     int `env:"IDLE_TIMEOUT" envDefault:"60"`
		ShutdownTimeout int `env:"SHUTDOWN_TIMEOUT" envDefault:"30"`
	} `envPrefix:"SERVER_"`
	Database struct {
		Path string `env:"PATH" envDefault:"shifts.db"`
	} `envPrefix:"DATABASE_"`
	Schedule struct {
		WeekAnchor string `env:"WEEK_ANCHOR" envDefault:"Tuesday"`
	} `envPrefix:"SCHEDULE_"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		aggErr := env.AggregateError{}
		if errors.As(err, &aggErr) {
			// Only the first error keeps the log readable.
			return nil, aggErr.Errors[0]
		}
		return nil, err
	}

	if _, err := cfg.WeekAnchor(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// WeekAnchor resolves the configured weekday name.
func (c *Config) WeekAnchor() (time.Weekday, error) {
	name := strings.ToLower(strings.TrimSpace(c.Schedule.WeekAnchor))
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.ToLower(d.String()) == name {
			return d, nil
		}
	}
	return 0, fmt.Errorf("invalid SCHEDULE_WEEK_ANCHOR %q", c.Schedule.WeekAnchor)
}
