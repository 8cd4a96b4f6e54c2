// Package config loads and normalizes the Canvas connection settings.
//
// Settings come from the environment (optionally seeded by a .env file):
//
//	CANVAS_DOMAIN    Canvas instance, with or without scheme
//	CANVAS_TOKEN     bearer access token
//	CANVAS_COURSE_ID default course id
//	REDIS_URL        optional, enables the response cache
//
// The domain is normalized here so the HTTP client can rely on a scheme
// prefix and no trailing slash.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrMissing marks settings the user must supply before any network call
// can happen.
var ErrMissing = errors.New("configuration missing")

// Settings is the validated runtime configuration.
type Settings struct {
	// Domain is the Canvas root URL, scheme-prefixed, no trailing slash.
	Domain string `validate:"required,url"`

	// Token is the bearer access token.
	Token string `validate:"required"`

	// CourseID is the default course; commands may override it per run.
	CourseID string `validate:"required"`

	// RedisURL enables the response cache when set.
	RedisURL string
}

// Load reads settings from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win
// over it.
func Load() (*Settings, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix("canvas")
	v.AutomaticEnv()
	// REDIS_URL is conventionally unprefixed.
	_ = v.BindEnv("redis_url", "REDIS_URL")

	s := &Settings{
		Domain:   NormalizeDomain(v.GetString("domain")),
		Token:    strings.TrimSpace(v.GetString("token")),
		CourseID: strings.TrimSpace(v.GetString("course_id")),
		RedisURL: strings.TrimSpace(v.GetString("redis_url")),
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks the settings after normalization. Missing required
// fields map to ErrMissing so callers can distinguish user-correctable
// configuration from everything else.
func (s *Settings) Validate() error {
	err := validator.New().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, envName(fe.Field()))
		}
		return fmt.Errorf("%w: %s", ErrMissing, strings.Join(fields, ", "))
	}
	return err
}

// NormalizeDomain gives the domain the shape the HTTP client requires:
// https scheme when none is present, no trailing slashes, no surrounding
// whitespace. An empty input stays empty (caught by validation).
func NormalizeDomain(domain string) string {
	domain = strings.TrimSpace(domain)
	if domain == "" {
		return ""
	}
	if !strings.HasPrefix(domain, "http://") && !strings.HasPrefix(domain, "https://") {
		domain = "https://" + domain
	}
	return strings.TrimRight(domain, "/")
}

func envName(field string) string {
	switch field {
	case "Domain":
		return "CANVAS_DOMAIN"
	case "Token":
		return "CANVAS_TOKEN"
	case "CourseID":
		return "CANVAS_COURSE_ID"
	default:
		return field
	}
}
