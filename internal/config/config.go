// Package config loads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Credential sources.
const (
	SourceStatic = "static"
	SourceDB     = "db"
	SourceRemote = "remote"
)

// Config holds the server configuration.
type Config struct {
	Port              string        `validate:"required,numeric"`
	DatabasePath      string        `validate:"required_if=CredentialsSource db"`
	JWTSecret         string        `validate:"required,min=32"`
	CookieSecure      bool
	BcryptCost        int           `validate:"min=4,max=14"`
	LoginDelay        time.Duration `validate:"gte=0"`
	SessionTTL        time.Duration `validate:"gt=0"`
	CredentialsSource string        `validate:"oneof=static db remote"`
	AuthAPIURL        string        `validate:"required_if=CredentialsSource remote"`
	LoginRate         float64       `validate:"gte=0"`
	LoginBurst        float64       `validate:"gte=1"`
	LogLevel          string        `validate:"oneof=debug info warn error"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Port:              "8080",
		DatabasePath:      "zedny.db",
		CookieSecure:      true,
		BcryptCost:        12,
		LoginDelay:        500 * time.Millisecond,
		SessionTTL:        24 * time.Hour,
		CredentialsSource: SourceStatic,
		LoginRate:         0.2,
		LoginBurst:        10,
		LogLevel:          "info",
	}
}

// Load reads the configuration from the process environment.
func Load() (*Config, error) {
	return LoadFrom(os.Getenv)
}

// LoadFrom reads the configuration through getenv and validates it.
func LoadFrom(getenv func(string) string) (*Config, error) {
	cfg := Default()

	str := func(key string, dst *string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	str("PORT", &cfg.Port)
	str("DATABASE_PATH", &cfg.DatabasePath)
	str("JWT_SECRET", &cfg.JWTSecret)
	str("CREDENTIALS_SOURCE", &cfg.CredentialsSource)
	str("AUTH_API_URL", &cfg.AuthAPIURL)
	str("LOG_LEVEL", &cfg.LogLevel)
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)

	// Secure cookies stay on unless explicitly disabled for local development.
	cfg.CookieSecure = getenv("COOKIE_SECURE") != "false"

	var errs []error
	if v := getenv("BCRYPT_COST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid BCRYPT_COST: %w", err))
		}
		cfg.BcryptCost = n
	}
	for key, dst := range map[string]*time.Duration{
		"LOGIN_DELAY": &cfg.LoginDelay,
		"SESSION_TTL": &cfg.SessionTTL,
	} {
		if v := getenv(key); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("invalid %s: %w", key, err))
			}
			*dst = d
		}
	}
	for key, dst := range map[string]*float64{
		"LOGIN_RATE":  &cfg.LoginRate,
		"LOGIN_BURST": &cfg.LoginBurst,
	} {
		if v := getenv(key); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				errs = append(errs, fmt.Errorf("invalid %s: %w", key, err))
			}
			*dst = f
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var validate = validator.New()

// Validate checks field constraints and reports the first violation.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var ves validator.ValidationErrors
	if errors.As(err, &ves) {
		fe := ves[0]
		return fmt.Errorf("config: %s failed validation for tag '%s'", envName(fe.Field()), fe.Tag())
	}
	return fmt.Errorf("config: %w", err)
}

// SlogLevel converts LogLevel.
func (c *Config) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

var envNames = map[string]string{
	"Port":              "PORT",
	"DatabasePath":      "DATABASE_PATH",
	"JWTSecret":         "JWT_SECRET",
	"BcryptCost":        "BCRYPT_COST",
	"LoginDelay":        "LOGIN_DELAY",
	"SessionTTL":        "SESSION_TTL",
	"CredentialsSource": "CREDENTIALS_SOURCE",
	"AuthAPIURL":        "AUTH_API_URL",
	"LoginRate":         "LOGIN_RATE",
	"LoginBurst":        "LOGIN_BURST",
	"LogLevel":          "LOG_LEVEL",
}

func envName(field string) string {
	if name, ok := envNames[field]; ok {
		return name
	}
	return field
}
