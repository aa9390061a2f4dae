package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application's configuration.
type Config struct {
	Database struct {
		URL string `yaml:"url"`
	} `yaml:"database"`
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Auth struct {
		TokenTTL string `yaml:"token_ttl"`
	} `yaml:"auth"`

	// JWTSecret is only ever sourced from the environment.
	JWTSecret string        `yaml:"-"`
	TokenTTL  time.Duration `yaml:"-"`
}

// LoadConfig reads configuration from the specified YAML file and then
// applies environment overrides (PORT, DATABASE_URL, JWT_EXPIRY).
// JWT_SECRET must be present in the environment; there is no default.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	config.Server.Port = "8080"
	config.Database.URL = "postgres://localhost:5432/noteful?sslmode=disable"
	config.Auth.TokenTTL = "7d"

	file, err := os.Open(configPath)
	if err == nil {
		defer file.Close()
		decoder := yaml.NewDecoder(file)
		if err := decoder.Decode(config); err != nil {
			return nil, fmt.Errorf("failed to decode config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}

	if v := os.Getenv("PORT"); v != "" {
		config.Server.Port = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		config.Database.URL = v
	}
	if v := os.Getenv("JWT_EXPIRY"); v != "" {
		config.Auth.TokenTTL = v
	}

	config.JWTSecret = os.Getenv("JWT_SECRET")
	if config.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is not set")
	}

	ttl, err := ParseExpiry(config.Auth.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid token_ttl %q: %w", config.Auth.TokenTTL, err)
	}
	config.TokenTTL = ttl

	return config, nil
}

// ParseExpiry parses a token lifetime. It accepts anything
// time.ParseDuration accepts plus a "d" suffix for days ("7d").
func ParseExpiry(s string) (time.Duration, error) {
	if strings.HasSuffix(s, "d") {
		days, err := strconv.Atoi(strings.TrimSuffix(s, "d"))
		if err != nil {
			return 0, fmt.Errorf("invalid day count: %w", err)
		}
		if days <= 0 {
			return 0, errors.New("expiry must be positive")
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, errors.New("expiry must be positive")
	}
	return d, nil
}
