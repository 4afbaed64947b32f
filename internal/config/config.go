package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// FreepikConfig holds the text-to-image provider settings
type FreepikConfig struct {
	APIKey      string `envconfig:"FREEPIK_API_KEY"`
	BaseURL     string `envconfig:"FREEPIK_BASE_URL" default:"https://api.freepik.com"`
	AspectRatio string `envconfig:"FREEPIK_ASPECT_RATIO" default:"square_1_1"`
}

// StabilityConfig holds the image-to-image provider settings
type StabilityConfig struct {
	APIKey  string `envconfig:"STABILITY_API_KEY"`
	BaseURL string `envconfig:"STABILITY_BASE_URL" default:"https://api.stability.ai"`
	Engine  string `envconfig:"STABILITY_ENGINE" default:"stable-diffusion-xl-1024-v1-0"`
}

// PlaceholderConfig holds the fallback image settings
type PlaceholderConfig struct {
	BaseURL string `envconfig:"PLACEHOLDER_BASE_URL" default:"https://api.dicebear.com/7.x/shapes/png"`
	Size    int    `envconfig:"PLACEHOLDER_SIZE" default:"1024"`
}

// PollConfig bounds the status polling of asynchronous jobs
type PollConfig struct {
	MaxAttempts int           `envconfig:"POLL_MAX_ATTEMPTS" default:"30"`
	Interval    time.Duration `envconfig:"POLL_INTERVAL" default:"1s"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Format string `envconfig:"LOG_FORMAT" default:"json"`
}

// Config holds all configuration for the application
type Config struct {
	Port            string        `envconfig:"PORT" default:"10000"`
	StaticDir       string        `envconfig:"STATIC_DIR"`
	AllowedOrigins  []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	HTTPTimeout     time.Duration `envconfig:"HTTP_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"15s"`
	MaxUploadBytes  int64         `envconfig:"MAX_UPLOAD_BYTES" default:"10485760"`
	ImageSize       int           `envconfig:"IMAGE_SIZE" default:"1024"`
	MaxInputPixels  int64         `envconfig:"MAX_INPUT_PIXELS" default:"268402689"`

	Freepik     FreepikConfig
	Stability   StabilityConfig
	Placeholder PlaceholderConfig
	Poll        PollConfig
	Log         LogConfig
}

// Load loads the configuration from an optional .env file and the environment.
// Top-level variables may also be given with a VIZZY_ prefix (VIZZY_PORT).
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	var config Config

	if err := envconfig.Process("vizzy", &config); err != nil {
		return nil, fmt.Errorf("error processing environment: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks value ranges. API keys are not required here: a missing key
// only disables the pipeline that needs it.
func (c *Config) Validate() error {
	if c.Poll.MaxAttempts <= 0 {
		return fmt.Errorf("POLL_MAX_ATTEMPTS must be positive, got %d", c.Poll.MaxAttempts)
	}
	if c.Poll.Interval < 0 {
		return fmt.Errorf("POLL_INTERVAL must not be negative, got %s", c.Poll.Interval)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive, got %d", c.MaxUploadBytes)
	}
	if c.MaxInputPixels <= 0 {
		return fmt.Errorf("MAX_INPUT_PIXELS must be positive, got %d", c.MaxInputPixels)
	}
	if c.ImageSize <= 0 {
		return fmt.Errorf("IMAGE_SIZE must be positive, got %d", c.ImageSize)
	}
	if c.Placeholder.Size <= 0 {
		return fmt.Errorf("PLACEHOLDER_SIZE must be positive, got %d", c.Placeholder.Size)
	}
	if c.Freepik.BaseURL == "" {
		return fmt.Errorf("FREEPIK_BASE_URL is required")
	}
	if c.Stability.BaseURL == "" {
		return fmt.Errorf("STABILITY_BASE_URL is required")
	}
	if c.Stability.Engine == "" {
		return fmt.Errorf("STABILITY_ENGINE is required")
	}

	return nil
}

// Addr returns the listen address for the HTTP server
func (c *Config) Addr() string {
	return net.JoinHostPort("", c.Port)
}
