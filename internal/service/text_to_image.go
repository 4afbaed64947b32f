package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/basel-ax/vizzy/internal/domain"
	"github.com/basel-ax/vizzy/internal/infrastructure/placeholder"
	"github.com/basel-ax/vizzy/internal/metrics"
	"github.com/basel-ax/vizzy/internal/poll"
	"github.com/basel-ax/vizzy/internal/telemetry"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// TextToImageService submits prompts to an asynchronous provider, waits for
// the job and falls back to a placeholder image when anything goes wrong
type TextToImageService struct {
	settings

	provider    domain.GenerationProvider
	placeholder *placeholder.Generator
	policy      poll.Policy
}

// NewTextToImageService creates the text-to-image pipeline. A nil provider
// means the provider API key is not configured.
func NewTextToImageService(provider domain.GenerationProvider, generator *placeholder.Generator, policy poll.Policy, options ...Option) *TextToImageService {
	if generator == nil {
		generator = placeholder.NewGenerator("", 0)
	}

	return &TextToImageService{
		settings: newSettings(PipelineTextToImage, options),

		provider:    provider,
		placeholder: generator,
		policy:      policy,
	}
}

// Generate runs the pipeline. Only invalid input and a missing configuration
// produce an error; provider failures yield a degraded placeholder result.
func (s *TextToImageService) Generate(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResult, error) {
	start := s.now()

	ctx, span := tracer.Start(ctx, "TextToImage.Generate")
	defer span.End()

	if err := req.Validate(); err != nil {
		s.record(PipelineTextToImage, metrics.OutcomeRejected, start)
		return nil, err
	}

	if s.provider == nil {
		s.logger.Error("text-to-image provider is not configured")
		telemetry.RecordError(span, domain.ErrNotConfigured)
		s.record(PipelineTextToImage, metrics.OutcomeFailed, start)
		return nil, domain.ErrNotConfigured
	}

	images, err := s.generate(ctx, req.Prompt)
	if err != nil {
		s.logger.Error("image generation failed, returning placeholder",
			append(errorFields(err), zap.String("prompt", req.Prompt))...,
		)

		span.RecordError(err)
		span.SetAttributes(attribute.Bool("vizzy.degraded", true))
		s.record(PipelineTextToImage, metrics.OutcomeDegraded, start)

		return &domain.GenerationResult{
			Content:   fmt.Sprintf("Placeholder for: \"%s\"", req.Prompt),
			Images:    []string{s.placeholder.URL(req.Prompt)},
			Timestamp: s.now().UTC(),
			Degraded:  true,
		}, nil
	}

	s.record(PipelineTextToImage, metrics.OutcomeSuccess, start)

	return &domain.GenerationResult{
		Content:   fmt.Sprintf("Created: \"%s\"", req.Prompt),
		Images:    images,
		Timestamp: s.now().UTC(),
	}, nil
}

func (s *TextToImageService) generate(ctx context.Context, prompt string) ([]string, error) {
	job, err := s.provider.CreateTask(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	trace.SpanFromContext(ctx).SetAttributes(attribute.String("vizzy.task_id", job.TaskID))

	logger := s.logger.With(zap.String("task_id", job.TaskID))
	logger.Debug("task created")

	images, attempts, err := poll.Until(ctx, s.policy, func(ctx context.Context, attempt int) ([]string, poll.Decision, error) {
		current, err := s.provider.GetTask(ctx, job.TaskID)
		if err != nil {
			logger.Warn("status check failed", zap.Int("attempt", attempt), zap.Error(err))
			return nil, poll.Continue, err
		}

		logger.Debug("status checked", zap.Int("attempt", attempt), zap.String("status", string(current.Status)))

		switch {
		case current.Usable():
			return current.Images, poll.Done, nil
		case current.Status == domain.JobFailed:
			return nil, poll.Abort, domain.ErrGenerationFailed
		}

		return nil, poll.Continue, nil
	})

	if s.metrics != nil {
		s.metrics.RecordPollAttempts("freepik", attempts)
	}

	if errors.Is(err, poll.ErrExhausted) {
		return nil, fmt.Errorf("%w after %d attempts", domain.ErrTimeout, attempts)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to wait for task %s: %w", job.TaskID, err)
	}

	return images, nil
}
