package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err)

	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { os.Chdir(wd) })
}

func TestLoad_Defaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "10000", cfg.Port)
	assert.Equal(t, ":10000", cfg.Addr())
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, int64(10*1024*1024), cfg.MaxUploadBytes)
	assert.Equal(t, 1024, cfg.ImageSize)
	assert.Equal(t, int64(268402689), cfg.MaxInputPixels)

	assert.Equal(t, "https://api.freepik.com", cfg.Freepik.BaseURL)
	assert.Equal(t, "square_1_1", cfg.Freepik.AspectRatio)
	assert.Equal(t, "https://api.stability.ai", cfg.Stability.BaseURL)
	assert.Equal(t, "stable-diffusion-xl-1024-v1-0", cfg.Stability.Engine)
	assert.Equal(t, "https://api.dicebear.com/7.x/shapes/png", cfg.Placeholder.BaseURL)

	assert.Equal(t, 30, cfg.Poll.MaxAttempts)
	assert.Equal(t, time.Second, cfg.Poll.Interval)
	assert.Equal(t, 60*time.Second, cfg.HTTPTimeout)
}

func TestLoad_Environment(t *testing.T) {
	chdirTemp(t)

	t.Setenv("FREEPIK_API_KEY", "fp-key")
	t.Setenv("STABILITY_API_KEY", "st-key")
	t.Setenv("VIZZY_PORT", "8080")
	t.Setenv("POLL_MAX_ATTEMPTS", "5")
	t.Setenv("POLL_INTERVAL", "250ms")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "fp-key", cfg.Freepik.APIKey)
	assert.Equal(t, "st-key", cfg.Stability.APIKey)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 5, cfg.Poll.MaxAttempts)
	assert.Equal(t, 250*time.Millisecond, cfg.Poll.Interval)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestLoad_DotEnv(t *testing.T) {
	chdirTemp(t)

	require.NoError(t, os.WriteFile(".env", []byte("STABILITY_ENGINE=sdxl-test\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("STABILITY_ENGINE") })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sdxl-test", cfg.Stability.Engine)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"zero attempts", "POLL_MAX_ATTEMPTS", "0"},
		{"negative interval", "POLL_INTERVAL", "-1s"},
		{"zero upload limit", "MAX_UPLOAD_BYTES", "0"},
		{"zero pixel limit", "MAX_INPUT_PIXELS", "0"},
		{"not a number", "IMAGE_SIZE", "large"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdirTemp(t)
			t.Setenv(tt.key, tt.val)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
