package stability

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/basel-ax/vizzy/internal/domain"
	"github.com/basel-ax/vizzy/internal/telemetry"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	providerName = "stability"

	defaultBaseURL = "https://api.stability.ai"
	defaultEngine  = "stable-diffusion-xl-1024-v1-0"

	instrumentationName = "github.com/basel-ax/vizzy/internal/infrastructure/stability"
)

var _ domain.TransformProvider = (*Client)(nil)

// Client represents the Stability AI generation API client
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	engine     string
}

// Option configures a Client
type Option func(*Client)

// WithBaseURL points the client at a different API host
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithEngine selects the engine used for image-to-image
func WithEngine(engine string) Option {
	return func(c *Client) {
		c.engine = engine
	}
}

// NewClient creates a new Stability AI client
func NewClient(apiKey string, options ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		engine:  defaultEngine,
	}

	for _, option := range options {
		option(c)
	}

	c.baseURL = strings.TrimRight(c.baseURL, "/")

	if c.engine == "" {
		c.engine = defaultEngine
	}

	return c
}

type generationResponse struct {
	Artifacts []struct {
		Base64       string `json:"base64"`
		Seed         int64  `json:"seed"`
		FinishReason string `json:"finishReason"`
	} `json:"artifacts"`
}

// Transform submits the image and prompt and returns the base64 artifacts
func (c *Client) Transform(ctx context.Context, job domain.TransformJob) ([]string, error) {
	ctx, span := otel.Tracer(instrumentationName).Start(ctx, "stability.Transform",
		trace.WithAttributes(attribute.String("stability.engine", c.engine)))
	defer span.End()

	artifacts, err := c.transform(ctx, job)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("stability.artifacts", len(artifacts)))

	return artifacts, nil
}

func (c *Client) transform(ctx context.Context, job domain.TransformJob) ([]string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="init_image"; filename="image.jpg"`)
	header.Set("Content-Type", "image/jpeg")

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("failed to create init_image part: %w", err)
	}

	if _, err := part.Write(job.Image); err != nil {
		return nil, fmt.Errorf("failed to write init_image: %w", err)
	}

	fields := []struct{ name, value string }{
		{"init_image_mode", "IMAGE_STRENGTH"},
		{"image_strength", "0.35"},
		{"text_prompts[0][text]", job.Prompt},
		{"text_prompts[0][weight]", "1"},
		{"cfg_scale", "7"},
		{"samples", "1"},
		{"steps", "50"},
	}

	for _, f := range fields {
		if err := writer.WriteField(f.name, f.value); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", f.name, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close writer: %w", err)
	}

	url := fmt.Sprintf("%s/v1/generation/%s/image-to-image", c.baseURL, c.engine)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", writer.FormDataContentType())
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

		return nil, &domain.ProviderError{
			Provider:   providerName,
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	var result generationResponse

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", domain.ErrProvider, err)
	}

	artifacts := make([]string, 0, len(result.Artifacts))

	for _, a := range result.Artifacts {
		if a.Base64 != "" {
			artifacts = append(artifacts, a.Base64)
		}
	}

	return artifacts, nil
}
