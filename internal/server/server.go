// Package server exposes the pipelines over HTTP.
package server

import (
	"context"
	"net/http"

	"github.com/basel-ax/vizzy/internal/config"
	"github.com/basel-ax/vizzy/internal/domain"
	"github.com/basel-ax/vizzy/internal/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// TextToImage is the text-to-image pipeline
type TextToImage interface {
	Generate(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResult, error)
}

// ImageToImage is the image-to-image pipeline
type ImageToImage interface {
	Transform(ctx context.Context, req domain.TransformRequest) (*domain.GenerationResult, error)
}

// Server serves the pipelines over HTTP
type Server struct {
	*config.Config

	textToImage  TextToImage
	imageToImage ImageToImage

	logger   *zap.Logger
	metrics  *metrics.Collector
	prefixes []string
}

// Option configures a Server
type Option func(*Server)

// WithLogger sets the logger, zap.NewNop by default
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics records request metrics on c and serves /metrics
func WithMetrics(c *metrics.Collector) Option {
	return func(s *Server) {
		s.metrics = c
	}
}

// WithPrefixes mounts the API under each of the given path prefixes instead
// of /api
func WithPrefixes(prefixes ...string) Option {
	return func(s *Server) {
		s.prefixes = prefixes
	}
}

// New creates a Server for the given pipelines
func New(cfg *config.Config, textToImage TextToImage, imageToImage ImageToImage, options ...Option) *Server {
	s := &Server{
		Config: cfg,

		textToImage:  textToImage,
		imageToImage: imageToImage,

		logger:   zap.NewNop(),
		prefixes: []string{"/api"},
	}

	for _, option := range options {
		option(s)
	}

	return s
}

// Handler builds the router
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         300,
	}))

	r.MethodNotAllowed(handleMethodNotAllowed)

	r.Get("/healthz", handleHealth)

	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler())
	}

	for _, prefix := range s.prefixes {
		r.Route(prefix, s.Attach)
	}

	if s.StaticDir != "" {
		r.Get("/*", staticHandler(s.StaticDir))
	}

	return r
}

// Attach registers the API routes on r
func (s *Server) Attach(r chi.Router) {
	r.MethodNotAllowed(handleMethodNotAllowed)

	r.Post("/text-to-image", s.handleTextToImage)
	r.Post("/image-to-image", s.handleImageToImage)
}
