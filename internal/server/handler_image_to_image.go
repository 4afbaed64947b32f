package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/basel-ax/vizzy/internal/domain"
)

const multipartOverhead = 1 << 20

var errMissingInput = errors.New("image and prompt are required")

func (s *Server) handleImageToImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.MaxUploadBytes+multipartOverhead)

	prompt, data, err := s.readUpload(r)

	if errors.Is(err, errMissingInput) {
		writeError(w, http.StatusBadRequest, "Image and prompt are required", nil)
		return
	}

	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid image", err)
		return
	}

	result, err := s.imageToImage.Transform(r.Context(), domain.TransformRequest{
		Prompt: prompt,
		Image:  data,
	})

	if errors.Is(err, domain.ErrInvalidInput) {
		writeError(w, http.StatusBadRequest, "Invalid image", err)
		return
	}

	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to transform image", err)
		return
	}

	writeJson(w, http.StatusOK, toResult(result))
}

func (s *Server) readUpload(r *http.Request) (string, []byte, error) {
	if err := r.ParseMultipartForm(s.MaxUploadBytes + multipartOverhead); err != nil {
		var maxErr *http.MaxBytesError

		if errors.As(err, &maxErr) {
			return "", nil, fmt.Errorf("image exceeds %d bytes", s.MaxUploadBytes)
		}

		return "", nil, errMissingInput
	}

	prompt := strings.TrimSpace(r.FormValue("prompt"))

	file, _, err := r.FormFile("image")

	if err != nil || prompt == "" {
		return "", nil, errMissingInput
	}

	defer file.Close()

	data, err := io.ReadAll(file)

	if err != nil {
		return "", nil, err
	}

	if len(data) == 0 {
		return "", nil, errMissingInput
	}

	return prompt, data, nil
}
