// Package config loads application configuration from an optional YAML
// file with environment variable overrides.
package config

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mergington/activityhub/internal/domain"
)

// DefaultJWTSecret matches the development secret shipped with the
// original deployment. The app warns loudly when it is still in use.
const DefaultJWTSecret = "mergington_high_school_secret_key_change_in_production"

// envPrefix is the prefix for environment overrides. Nesting levels are
// separated by a double underscore so snake_case keys keep theirs:
// ACTIVITYHUB_SERVER__PORT=8080, ACTIVITYHUB_JWT__SECRET_KEY=....
const envPrefix = "ACTIVITYHUB_"

// Config is the root application configuration.
type Config struct {
	Server ServerConfig `koanf:"server"`
	Log    LogConfig    `koanf:"log"`
	JWT    JWTConfig    `koanf:"jwt"`
	Auth   AuthConfig   `koanf:"auth"`
	CORS   CORSConfig   `koanf:"cors"`
	Seed   SeedConfig   `koanf:"seed"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host              string        `koanf:"host"`
	Port              string        `koanf:"port"`
	MetricsPort       string        `koanf:"metrics_port"`
	ReadTimeout       time.Duration `koanf:"read_timeout"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout"`
	WriteTimeout      time.Duration `koanf:"write_timeout"`
	IdleTimeout       time.Duration `koanf:"idle_timeout"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// JWTConfig contains token settings.
type JWTConfig struct {
	SecretKey string        `koanf:"secret_key"`
	TokenTTL  time.Duration `koanf:"token_ttl"`
}

// AuthConfig contains registration and login settings.
type AuthConfig struct {
	// EmailDomain is the required email suffix for registration.
	EmailDomain    string  `koanf:"email_domain"`
	LoginRateLimit float64 `koanf:"login_rate_limit"`
	LoginRateBurst int     `koanf:"login_rate_burst"`
}

// CORSConfig contains CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `koanf:"allowed_origins"`
}

// SeedConfig describes the state the store is (re)built with at startup.
type SeedConfig struct {
	Admin      AdminSeed               `koanf:"admin"`
	Activities map[string]ActivitySeed `koanf:"activities"`
}

// AdminSeed is the bootstrap admin account.
type AdminSeed struct {
	Email    string `koanf:"email"`
	Password string `koanf:"password"`
	FullName string `koanf:"full_name"`
}

// ActivitySeed is one activity entry in the seed file, keyed by slug.
type ActivitySeed struct {
	// Name overrides the display name derived from the slug.
	Name            string   `koanf:"name"`
	Description     string   `koanf:"description"`
	Schedule        string   `koanf:"schedule"`
	MaxParticipants int      `koanf:"max_participants"`
	Participants    []string `koanf:"participants"`
}

// Load reads configuration from the given YAML file (optional, pass ""
// to skip) and applies ACTIVITYHUB_* environment overrides on top of
// built-in defaults.
func Load(path string) (*Config, error) {
	cfg := defaults()

	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		// Only the double underscore nests; a single one stays part of
		// the key, so ACTIVITYHUB_JWT__SECRET_KEY maps to jwt.secret_key.
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              "8000",
			MetricsPort:       "9090",
			ReadTimeout:       15 * time.Second,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		JWT: JWTConfig{
			SecretKey: DefaultJWTSecret,
			TokenTTL:  480 * time.Minute,
		},
		Auth: AuthConfig{
			EmailDomain:    "@mergington.edu",
			LoginRateLimit: 5,
			LoginRateBurst: 10,
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"*"},
		},
		Seed: SeedConfig{
			Admin: AdminSeed{
				Email:    "admin@mergington.edu",
				Password: "admin123",
				FullName: "System Administrator",
			},
		},
	}
}

func (c *Config) validate() error {
	if c.JWT.SecretKey == "" {
		return fmt.Errorf("jwt.secret_key must not be empty")
	}
	if c.JWT.TokenTTL <= 0 {
		return fmt.Errorf("jwt.token_ttl must be positive")
	}
	if !strings.HasPrefix(c.Auth.EmailDomain, "@") {
		return fmt.Errorf("auth.email_domain must start with @, got %q", c.Auth.EmailDomain)
	}
	if !strings.HasSuffix(c.Seed.Admin.Email, c.Auth.EmailDomain) {
		return fmt.Errorf("seed.admin.email %q does not match auth.email_domain %q",
			c.Seed.Admin.Email, c.Auth.EmailDomain)
	}
	for slug, a := range c.Seed.Activities {
		if a.MaxParticipants <= 0 {
			return fmt.Errorf("seed.activities.%s.max_participants must be positive", slug)
		}
		if len(a.Participants) > a.MaxParticipants {
			return fmt.Errorf("seed.activities.%s has %d participants, capacity is %d",
				slug, len(a.Participants), a.MaxParticipants)
		}
	}
	return nil
}

// SeedActivities converts configured activities to domain objects. Map
// keys are slugs ("chess_club"); display names default to the
// title-cased slug unless overridden. Returns nil when no activities are
// configured, in which case the caller falls back to the built-in
// catalog.
func (c *Config) SeedActivities() []domain.Activity {
	if len(c.Seed.Activities) == 0 {
		return nil
	}

	titler := cases.Title(language.AmericanEnglish)

	// Stable listing order: YAML map order is not preserved, so sort.
	slugs := make([]string, 0, len(c.Seed.Activities))
	for slug := range c.Seed.Activities {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)

	out := make([]domain.Activity, 0, len(slugs))
	for _, slug := range slugs {
		a := c.Seed.Activities[slug]
		name := a.Name
		if name == "" {
			name = titler.String(strings.ReplaceAll(slug, "_", " "))
		}
		out = append(out, domain.Activity{
			Name:            name,
			Description:     a.Description,
			Schedule:        a.Schedule,
			MaxParticipants: a.MaxParticipants,
			Participants:    append([]string(nil), a.Participants...),
		})
	}
	return out
}
