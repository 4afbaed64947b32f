// Package app wires the configuration into providers, pipelines and the HTTP
// server.
package app

import (
	"net/http"

	"github.com/basel-ax/vizzy/internal/config"
	"github.com/basel-ax/vizzy/internal/domain"
	"github.com/basel-ax/vizzy/internal/infrastructure/freepik"
	"github.com/basel-ax/vizzy/internal/infrastructure/placeholder"
	"github.com/basel-ax/vizzy/internal/infrastructure/stability"
	"github.com/basel-ax/vizzy/internal/metrics"
	"github.com/basel-ax/vizzy/internal/poll"
	"github.com/basel-ax/vizzy/internal/server"
	"github.com/basel-ax/vizzy/internal/service"

	"go.uber.org/zap"
)

const metricsNamespace = "vizzy"

// New builds the server for cfg. Providers whose API key is missing are left
// out, which makes their pipeline answer with a configuration error.
func New(cfg *config.Config, logger *zap.Logger, options ...server.Option) *server.Server {
	collector := metrics.NewCollector(metricsNamespace)

	var generator domain.GenerationProvider

	if cfg.Freepik.APIKey != "" {
		generator = freepik.NewClient(cfg.Freepik.APIKey,
			freepik.WithBaseURL(cfg.Freepik.BaseURL),
			freepik.WithAspectRatio(cfg.Freepik.AspectRatio),
			freepik.WithHTTPClient(httpClient(cfg, collector, "freepik")),
		)
	} else {
		logger.Warn("FREEPIK_API_KEY is not set, text-to-image is disabled")
	}

	var transformer domain.TransformProvider

	if cfg.Stability.APIKey != "" {
		transformer = stability.NewClient(cfg.Stability.APIKey,
			stability.WithBaseURL(cfg.Stability.BaseURL),
			stability.WithEngine(cfg.Stability.Engine),
			stability.WithHTTPClient(httpClient(cfg, collector, "stability")),
		)
	} else {
		logger.Warn("STABILITY_API_KEY is not set, image-to-image is disabled")
	}

	serviceOptions := []service.Option{
		service.WithLogger(logger),
		service.WithMetrics(collector),
	}

	textToImage := service.NewTextToImageService(
		generator,
		placeholder.NewGenerator(cfg.Placeholder.BaseURL, cfg.Placeholder.Size),
		poll.Policy{
			MaxAttempts: cfg.Poll.MaxAttempts,
			Delay:       cfg.Poll.Interval,
		},
		serviceOptions...,
	)

	imageToImage := service.NewImageToImageService(transformer, cfg.ImageSize, cfg.MaxUploadBytes, cfg.MaxInputPixels, serviceOptions...)

	options = append([]server.Option{
		server.WithLogger(logger.With(zap.String("component", "server"))),
		server.WithMetrics(collector),
	}, options...)

	return server.New(cfg, textToImage, imageToImage, options...)
}

func httpClient(cfg *config.Config, collector *metrics.Collector, provider string) *http.Client {
	return &http.Client{
		Timeout:   cfg.HTTPTimeout,
		Transport: collector.Transport(provider, nil),
	}
}
