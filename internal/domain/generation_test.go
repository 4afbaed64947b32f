package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJobStatus(t *testing.T) {
	tests := map[string]JobStatus{
		"COMPLETED":   JobCompleted,
		" completed ": JobCompleted,
		"FAILED":      JobFailed,
		"CREATED":     JobPending,
		"IN_PROGRESS": JobPending,
		"":            JobPending,
	}

	for input, expected := range tests {
		assert.Equal(t, expected, ParseJobStatus(input), input)
	}
}

func TestGenerationRequest_Validate(t *testing.T) {
	req := GenerationRequest{Prompt: "\t a fox \n"}
	require.NoError(t, req.Validate())
	assert.Equal(t, "a fox", req.Prompt)

	req = GenerationRequest{Prompt: "   "}
	assert.ErrorIs(t, req.Validate(), ErrInvalidInput)
}

func TestTransformRequest_Validate(t *testing.T) {
	tests := []struct {
		name  string
		req   TransformRequest
		valid bool
	}{
		{"valid", TransformRequest{Prompt: " blue ", Image: []byte{1, 2}}, true},
		{"no prompt", TransformRequest{Image: []byte{1}}, false},
		{"no image", TransformRequest{Prompt: "blue"}, false},
		{"too large", TransformRequest{Prompt: "blue", Image: make([]byte, 11)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate(10)

			if tt.valid {
				assert.NoError(t, err)
				return
			}

			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestGenerationJob_Usable(t *testing.T) {
	assert.True(t, (&GenerationJob{Status: JobCompleted, Images: []string{"x"}}).Usable())
	assert.False(t, (&GenerationJob{Status: JobCompleted}).Usable())
	assert.False(t, (&GenerationJob{Status: JobPending, Images: []string{"x"}}).Usable())
}

func TestProviderError(t *testing.T) {
	err := &ProviderError{Provider: "freepik", StatusCode: 429, Body: "slow down"}

	assert.Equal(t, "freepik error: 429", err.Error())
	assert.ErrorIs(t, err, ErrProvider)
}
