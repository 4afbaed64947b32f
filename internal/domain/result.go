package domain

import (
	"time"
)

// GenerationResult is the value handed back to the caller of either pipeline.
// Degraded marks a placeholder produced after the provider failed.
type GenerationResult struct {
	Content   string
	Images    []string
	Timestamp time.Time
	Degraded  bool
}
