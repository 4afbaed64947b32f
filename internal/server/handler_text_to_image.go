package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/basel-ax/vizzy/internal/domain"
)

const maxJSONBytes = 64 << 10

// TextToImageRequest is the JSON body of a text-to-image request
type TextToImageRequest struct {
	Prompt string `json:"prompt"`
}

func (s *Server) handleTextToImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBytes)

	var req TextToImageRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	result, err := s.textToImage.Generate(r.Context(), domain.GenerationRequest{
		Prompt: req.Prompt,
	})

	if errors.Is(err, domain.ErrInvalidInput) {
		writeError(w, http.StatusBadRequest, "Prompt is required", nil)
		return
	}

	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to generate image", err)
		return
	}

	writeJson(w, http.StatusOK, toResult(result))
}
