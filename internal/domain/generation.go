package domain

import (
	"context"
	"fmt"
	"strings"
)

// JobStatus is the normalized state of an asynchronous generation task
type JobStatus string

const (
	JobPending   JobStatus = "PENDING"
	JobCompleted JobStatus = "COMPLETED"
	JobFailed    JobStatus = "FAILED"
)

// ParseJobStatus maps a provider status onto a JobStatus. Anything that is not
// terminal counts as pending.
func ParseJobStatus(s string) JobStatus {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(JobCompleted):
		return JobCompleted
	case string(JobFailed):
		return JobFailed
	default:
		return JobPending
	}
}

// GenerationRequest represents a text-to-image request
type GenerationRequest struct {
	Prompt string
}

// Validate trims the prompt and rejects it when nothing is left
func (r *GenerationRequest) Validate() error {
	r.Prompt = strings.TrimSpace(r.Prompt)

	if r.Prompt == "" {
		return fmt.Errorf("%w: prompt is required", ErrInvalidInput)
	}

	return nil
}

// GenerationJob represents a task submitted to the asynchronous provider
type GenerationJob struct {
	TaskID string
	Status JobStatus
	Images []string
}

// Usable reports whether the job finished with at least one image
func (j *GenerationJob) Usable() bool {
	return j.Status == JobCompleted && len(j.Images) > 0
}

// TransformRequest represents an image-to-image request
type TransformRequest struct {
	Prompt      string
	Image       []byte
	ContentType string
}

// Validate trims the prompt and checks that both parts are present and the
// image fits within maxBytes
func (r *TransformRequest) Validate(maxBytes int64) error {
	r.Prompt = strings.TrimSpace(r.Prompt)

	if r.Prompt == "" || len(r.Image) == 0 {
		return fmt.Errorf("%w: image and prompt are required", ErrInvalidInput)
	}

	if maxBytes > 0 && int64(len(r.Image)) > maxBytes {
		return fmt.Errorf("%w: image exceeds %d bytes", ErrInvalidInput, maxBytes)
	}

	return nil
}

// TransformJob is what gets submitted to the transform provider after the
// source image has been normalized
type TransformJob struct {
	Prompt string
	Image  []byte
}

// GenerationProvider defines the asynchronous text-to-image operations
type GenerationProvider interface {
	// CreateTask submits a prompt and returns the queued job
	CreateTask(ctx context.Context, prompt string) (*GenerationJob, error)

	// GetTask fetches the current state of a job
	GetTask(ctx context.Context, taskID string) (*GenerationJob, error)
}

// TransformProvider defines the synchronous image-to-image operation
type TransformProvider interface {
	// Transform returns the base64 payloads of the generated artifacts
	Transform(ctx context.Context, job TransformJob) ([]string, error)
}
