package freepik

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/basel-ax/vizzy/internal/domain"
	"github.com/basel-ax/vizzy/internal/telemetry"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	providerName = "freepik"

	defaultBaseURL     = "https://api.freepik.com"
	defaultAspectRatio = "square_1_1"

	instrumentationName = "github.com/basel-ax/vizzy/internal/infrastructure/freepik"
)

var _ domain.GenerationProvider = (*Client)(nil)

// Client represents the Freepik Mystic API client
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	aspectRatio string
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

// WithAspectRatio overrides the aspect ratio sent with every task
func WithAspectRatio(ratio string) Option {
	return func(c *Client) {
		c.aspectRatio = ratio
	}
}

// NewClient creates a new Freepik API client
func NewClient(apiKey string, options ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		apiKey:      apiKey,
		baseURL:     defaultBaseURL,
		aspectRatio: defaultAspectRatio,
	}

	for _, option := range options {
		option(c)
	}

	c.baseURL = strings.TrimRight(c.baseURL, "/")

	if c.aspectRatio == "" {
		c.aspectRatio = defaultAspectRatio
	}

	return c
}

type createTaskRequest struct {
	Prompt      string `json:"prompt"`
	AspectRatio string `json:"aspect_ratio"`
}

type taskResponse struct {
	Data struct {
		TaskID    string `json:"task_id"`
		Status    string `json:"status"`
		Generated []any  `json:"generated"`
	} `json:"data"`
}

// CreateTask submits a prompt to the Mystic endpoint
func (c *Client) CreateTask(ctx context.Context, prompt string) (*domain.GenerationJob, error) {
	ctx, span := otel.Tracer(instrumentationName).Start(ctx, "freepik.CreateTask")
	defer span.End()

	body, err := json.Marshal(createTaskRequest{
		Prompt:      prompt,
		AspectRatio: c.aspectRatio,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/ai/mystic", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")

	result, err := c.do(httpReq)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if result.Data.TaskID == "" {
		err := fmt.Errorf("%w: no task_id received", domain.ErrProvider)
		telemetry.RecordError(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.String("freepik.task_id", result.Data.TaskID))

	return convertJob(result), nil
}

// GetTask fetches the status of a Mystic task
func (c *Client) GetTask(ctx context.Context, taskID string) (*domain.GenerationJob, error) {
	ctx, span := otel.Tracer(instrumentationName).Start(ctx, "freepik.GetTask",
		trace.WithAttributes(attribute.String("freepik.task_id", taskID)))
	defer span.End()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/ai/mystic/"+url.PathEscape(taskID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	result, err := c.do(httpReq)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	job := convertJob(result)

	if job.TaskID == "" {
		job.TaskID = taskID
	}

	span.SetAttributes(attribute.String("freepik.status", string(job.Status)))

	return job, nil
}

func (c *Client) do(httpReq *http.Request) (*taskResponse, error) {
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("x-freepik-api-key", c.apiKey)

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

	var result taskResponse

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", domain.ErrProvider, err)
	}

	return &result, nil
}

func convertJob(result *taskResponse) *domain.GenerationJob {
	job := &domain.GenerationJob{
		TaskID: result.Data.TaskID,
		Status: domain.ParseJobStatus(result.Data.Status),
	}

	for _, v := range result.Data.Generated {
		if s, ok := v.(string); ok && s != "" {
			job.Images = append(job.Images, s)
		}
	}

	return job
}
