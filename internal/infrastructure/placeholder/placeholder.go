package placeholder

import (
	"net/url"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
)

const (
	defaultBaseURL = "https://api.dicebear.com/7.x/shapes/png"
	defaultSize    = 1024
)

// Generator builds deterministic placeholder image URLs
type Generator struct {
	baseURL string
	size    int
	now     func() time.Time
}

// Option configures a Generator
type Option func(*Generator)

// WithClock replaces time.Now, mainly for tests
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

// NewGenerator creates a placeholder generator for the given image service
func NewGenerator(baseURL string, size int, options ...Option) *Generator {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	if size <= 0 {
		size = defaultSize
	}

	g := &Generator{
		baseURL: baseURL,
		size:    size,
		now:     time.Now,
	}

	for _, option := range options {
		option(g)
	}

	return g
}

// Seed hashes the prompt together with the current time in milliseconds
func (g *Generator) Seed(prompt string) string {
	millis := g.now().UnixMilli()
	return strconv.FormatUint(xxhash.Sum64String(prompt+strconv.FormatInt(millis, 10)), 16)
}

// URL returns the placeholder image URL for a prompt
func (g *Generator) URL(prompt string) string {
	query := url.Values{}
	query.Set("seed", g.Seed(prompt))
	query.Set("size", strconv.Itoa(g.size))

	return g.baseURL + "?" + query.Encode()
}
