package server

import (
	"encoding/json"
	"net/http"

	"github.com/basel-ax/vizzy/internal/domain"
)

const timestampFormat = "2006-01-02T15:04:05.000Z"

// Result is the JSON body returned by both pipelines
type Result struct {
	Content   string   `json:"content"`
	Images    []string `json:"images"`
	Timestamp string   `json:"timestamp"`
	Degraded  bool     `json:"degraded,omitempty"`
}

// ErrorResponse is the JSON body of every error reply
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func toResult(r *domain.GenerationResult) Result {
	return Result{
		Content:   r.Content,
		Images:    r.Images,
		Timestamp: r.Timestamp.UTC().Format(timestampFormat),
		Degraded:  r.Degraded,
	}
}

func writeJson(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	enc.Encode(v)
}

func writeError(w http.ResponseWriter, code int, message string, err error) {
	e := ErrorResponse{
		Error: message,
	}

	if err != nil {
		e.Details = err.Error()
	}

	writeJson(w, code, e)
}

func handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "Method not allowed", nil)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJson(w, http.StatusOK, map[string]string{"status": "ok"})
}
