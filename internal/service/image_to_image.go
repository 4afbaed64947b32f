package service

import (
	"context"
	"fmt"

	"github.com/basel-ax/vizzy/internal/domain"
	"github.com/basel-ax/vizzy/internal/imageproc"
	"github.com/basel-ax/vizzy/internal/metrics"
	"github.com/basel-ax/vizzy/internal/telemetry"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const (
	defaultImageSize      = 1024
	defaultMaxUploadBytes = 10 << 20

	dataURIPrefix = "data:image/png;base64,"
)

// ImageToImageService normalizes an uploaded image and sends it with a prompt
// to a synchronous transform provider
type ImageToImageService struct {
	settings

	provider       domain.TransformProvider
	imageSize      int
	maxUploadBytes int64
	maxPixels      int64
}

// NewImageToImageService creates the image-to-image pipeline. A nil provider
// means the provider API key is not configured. Non-positive limits select the
// defaults.
func NewImageToImageService(provider domain.TransformProvider, imageSize int, maxUploadBytes, maxPixels int64, options ...Option) *ImageToImageService {
	if imageSize <= 0 {
		imageSize = defaultImageSize
	}

	if maxUploadBytes <= 0 {
		maxUploadBytes = defaultMaxUploadBytes
	}

	if maxPixels <= 0 {
		maxPixels = imageproc.DefaultMaxPixels
	}

	return &ImageToImageService{
		settings: newSettings(PipelineImageToImage, options),

		provider:       provider,
		imageSize:      imageSize,
		maxUploadBytes: maxUploadBytes,
		maxPixels:      maxPixels,
	}
}

// Transform runs the pipeline. Every failure is returned to the caller.
func (s *ImageToImageService) Transform(ctx context.Context, req domain.TransformRequest) (*domain.GenerationResult, error) {
	start := s.now()

	ctx, span := tracer.Start(ctx, "ImageToImage.Transform")
	defer span.End()

	if err := s.validate(&req); err != nil {
		s.record(PipelineImageToImage, metrics.OutcomeRejected, start)
		return nil, err
	}

	span.SetAttributes(
		attribute.String("vizzy.content_type", req.ContentType),
		attribute.Int("vizzy.image_bytes", len(req.Image)),
	)

	if s.provider == nil {
		s.logger.Error("image-to-image provider is not configured")
		telemetry.RecordError(span, domain.ErrNotConfigured)
		s.record(PipelineImageToImage, metrics.OutcomeFailed, start)
		return nil, domain.ErrNotConfigured
	}

	images, err := s.transform(ctx, req)
	if err != nil {
		s.logger.Error("image transformation failed",
			append(errorFields(err), zap.String("prompt", req.Prompt))...,
		)

		telemetry.RecordError(span, err)
		s.record(PipelineImageToImage, metrics.OutcomeFailed, start)

		return nil, err
	}

	s.record(PipelineImageToImage, metrics.OutcomeSuccess, start)

	return &domain.GenerationResult{
		Content:   fmt.Sprintf("Transformed: \"%s\"", req.Prompt),
		Images:    images,
		Timestamp: s.now().UTC(),
	}, nil
}

func (s *ImageToImageService) validate(req *domain.TransformRequest) error {
	if err := req.Validate(s.maxUploadBytes); err != nil {
		return err
	}

	req.ContentType = imageproc.DetectContentType(req.Image)

	if !imageproc.Supported(req.ContentType) {
		return fmt.Errorf("%w: unsupported image type %s", domain.ErrInvalidInput, req.ContentType)
	}

	if err := imageproc.CheckDimensions(req.Image, s.maxPixels); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	return nil
}

func (s *ImageToImageService) transform(ctx context.Context, req domain.TransformRequest) ([]string, error) {
	normalized, err := imageproc.Normalize(req.Image, s.imageSize, s.maxPixels)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize image: %w", err)
	}

	artifacts, err := s.provider.Transform(ctx, domain.TransformJob{
		Prompt: req.Prompt,
		Image:  normalized,
	})
	if err != nil {
		return nil, err
	}

	if len(artifacts) == 0 {
		return nil, domain.ErrNoImage
	}

	return []string{dataURIPrefix + artifacts[0]}, nil
}
