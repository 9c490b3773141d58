// Package config loads settings for the suite runner and the reference
// server from a config file, RECIPEBOOK_* environment variables and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const EnvPrefix = "RECIPEBOOK"

// Config holds every setting. Suite settings sit at the top level, the
// reference server's under Server.
type Config struct {
	BaseURL   string        `mapstructure:"base_url" validate:"required,url"`
	Email     string        `mapstructure:"email" validate:"required,email"`
	Password  string        `mapstructure:"password" validate:"required"`
	LoginPath string        `mapstructure:"login_path" validate:"required,startswith=/"`
	Timeout   time.Duration `mapstructure:"timeout" validate:"gte=0"`
	RateLimit float64       `mapstructure:"rate_limit" validate:"gte=0"`
	LogLevel  string        `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	LogFormat string        `mapstructure:"log_format" validate:"required,oneof=text json"`
	// Seed creates the baseline fixtures through the API before running.
	Seed     bool         `mapstructure:"seed"`
	Fixtures string       `mapstructure:"fixtures"`
	Server   ServerConfig `mapstructure:"server" validate:"required"`
}

type ServerConfig struct {
	Port        int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	DatabaseURL string `mapstructure:"database_url" validate:"omitempty,url"`
	JWTSecret   string `mapstructure:"jwt_secret" validate:"required,min=16"`
	// Preload loads the fixtures into the store at startup.
	Preload bool `mapstructure:"preload"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("base_url", "http://localhost:3000")
	v.SetDefault("email", "john.doe@example.com")
	v.SetDefault("password", "password123")
	v.SetDefault("login_path", "/auth/login")
	v.SetDefault("timeout", 30*time.Second)
	v.SetDefault("rate_limit", 0)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("seed", false)
	v.SetDefault("fixtures", "")
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.database_url", "")
	v.SetDefault("server.jwt_secret", "recipebook-local-secret")
	v.SetDefault("server.preload", true)
}

// New returns a viper instance with defaults and environment binding.
// A non-empty configFile is read; a missing recipebook.yaml is not an
// error.
func New(configFile string) (*viper.Viper, error) {
	// .env is optional; variables already set win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("recipebook")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	return v, nil
}

// Load is New followed by Decode.
func Load(configFile string) (*Config, error) {
	v, err := New(configFile)
	if err != nil {
		return nil, err
	}
	return Decode(v)
}

// Decode unmarshals and validates the settings held by v.
func Decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
