package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
	_ "time/tzdata"

	"ditztime/internal/calendar"
	"ditztime/internal/eventlog"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// AppConfig holds the complete application configuration.
type AppConfig struct {
	SplitHour     int           `validate:"min=0,max=23"`
	TimeZone      string        `validate:"required"`
	Workers       int           `validate:"min=1,max=256"`
	IssuePattern  string        `validate:"required"`
	WatchDebounce time.Duration `validate:"min=0"`

	location *time.Location
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Default returns the configuration used when nothing is set in the environment.
func Default() *AppConfig {
	return &AppConfig{
		SplitHour:     calendar.DefaultSplitHour,
		TimeZone:      "UTC",
		Workers:       4,
		IssuePattern:  eventlog.DefaultIssuePattern,
		WatchDebounce: 500 * time.Millisecond,
		location:      time.UTC,
	}
}

// Load loads the configuration from .env files and environment variables.
func Load() (*AppConfig, error) {
	// 1. Try to load from the executable's directory
	exePath, err := os.Executable()
	if err == nil {
		envPath := filepath.Join(filepath.Dir(exePath), ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}

	// 2. Fallback to current working directory
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables")
	}

	def := Default()
	cfg := &AppConfig{
		SplitHour:     getEnvInt("DITZTIME_SPLIT_HOUR", def.SplitHour),
		TimeZone:      getEnv("DITZTIME_TIMEZONE", def.TimeZone),
		Workers:       getEnvInt("DITZTIME_WORKERS", def.Workers),
		IssuePattern:  getEnv("DITZTIME_ISSUE_GLOB", def.IssuePattern),
		WatchDebounce: time.Duration(getEnvInt("DITZTIME_WATCH_DEBOUNCE_MS", 500)) * time.Millisecond,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field ranges and resolves the time zone.
func (c *AppConfig) Validate() error {
	if err := validatorInstance().Struct(c); err != nil {
		var msgs []string
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %s=%s (got %v)", fe.Field(), fe.Tag(), fe.Param(), fe.Value()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}

	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return fmt.Errorf("invalid time zone %q: %w", c.TimeZone, err)
	}
	c.location = loc
	return nil
}

// Location returns the zone used to interpret timestamps and bucket days.
func (c *AppConfig) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
		log.Warn().Str("key", key).Str("value", value).Msg("Ignoring non-numeric configuration value")
	}
	return fallback
}
