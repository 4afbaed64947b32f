// Package service implements the text-to-image and image-to-image pipelines.
package service

import (
	"errors"
	"time"

	"github.com/basel-ax/vizzy/internal/domain"
	"github.com/basel-ax/vizzy/internal/metrics"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

const (
	PipelineTextToImage  = "text_to_image"
	PipelineImageToImage = "image_to_image"

	instrumentationName = "github.com/basel-ax/vizzy/internal/service"
)

var tracer = otel.Tracer(instrumentationName)

type settings struct {
	logger  *zap.Logger
	metrics *metrics.Collector
	now     func() time.Time
}

// Option configures a pipeline
type Option func(*settings)

// WithLogger sets the logger, zap.NewNop by default
func WithLogger(logger *zap.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// WithMetrics records pipeline outcomes on c
func WithMetrics(c *metrics.Collector) Option {
	return func(s *settings) {
		s.metrics = c
	}
}

// WithClock replaces time.Now, mainly for tests
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		s.now = now
	}
}

func newSettings(pipeline string, options []Option) settings {
	s := settings{
		logger: zap.NewNop(),
		now:    time.Now,
	}

	for _, option := range options {
		option(&s)
	}

	s.logger = s.logger.With(zap.String("pipeline", pipeline))

	return s
}

func (s *settings) record(pipeline, outcome string, start time.Time) {
	if s.metrics == nil {
		return
	}

	s.metrics.RecordPipeline(pipeline, outcome, s.now().Sub(start))
}

// errorFields adds the upstream status and body when err came from a provider
func errorFields(err error) []zap.Field {
	fields := []zap.Field{zap.Error(err)}

	var perr *domain.ProviderError

	if errors.As(err, &perr) {
		fields = append(fields,
			zap.String("provider", perr.Provider),
			zap.Int("status", perr.StatusCode),
			zap.String("body", perr.Body),
		)
	}

	return fields
}
