package app

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"hash/crc32"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/basel-ax/vizzy/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig() *config.Config {
	return &config.Config{
		AllowedOrigins: []string{"*"},
		HTTPTimeout:    5 * time.Second,
		MaxUploadBytes: 1 << 20,
		ImageSize:      32,

		Placeholder: config.PlaceholderConfig{
			BaseURL: "https://placeholder.test/png",
			Size:    1024,
		},

		Poll: config.PollConfig{
			MaxAttempts: 3,
		},
	}
}

func TestTextToImage(t *testing.T) {
	freepik := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("x-freepik-api-key"))

		switch r.Method + " " + r.URL.Path {
		case "POST /v1/ai/mystic":
			w.Write([]byte(`{"data":{"task_id":"t1","status":"CREATED"}}`))
		case "GET /v1/ai/mystic/t1":
			w.Write([]byte(`{"data":{"task_id":"t1","status":"COMPLETED","generated":["https://img/1.png"]}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer freepik.Close()

	cfg := testConfig()
	cfg.Freepik.APIKey = "secret"
	cfg.Freepik.BaseURL = freepik.URL

	handler := New(cfg, zap.NewNop()).Handler()

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/text-to-image", strings.NewReader(`{"prompt":"fox"}`)))

	require.Equal(t, http.StatusOK, w.Code)

	var result map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&result))

	assert.Equal(t, `Created: "fox"`, result["content"])
	assert.Equal(t, []any{"https://img/1.png"}, result["images"])
	assert.NotContains(t, result, "degraded")
}

func TestTextToImage_ProviderDown(t *testing.T) {
	freepik := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer freepik.Close()

	cfg := testConfig()
	cfg.Freepik.APIKey = "secret"
	cfg.Freepik.BaseURL = freepik.URL

	handler := New(cfg, zap.NewNop()).Handler()

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/text-to-image", strings.NewReader(`{"prompt":"fox"}`)))

	require.Equal(t, http.StatusOK, w.Code)

	var result map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&result))

	assert.Equal(t, `Placeholder for: "fox"`, result["content"])
	assert.Equal(t, true, result["degraded"])
}

func testPNG(t *testing.T) []byte {
	t.Helper()

	var img bytes.Buffer
	require.NoError(t, png.Encode(&img, image.NewGray(image.Rect(0, 0, 4, 4))))

	return img.Bytes()
}

func uploadRequest(t *testing.T, prompt string, data []byte) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	require.NoError(t, writer.WriteField("prompt", prompt))

	part, err := writer.CreateFormFile("image", "photo.png")
	require.NoError(t, err)

	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/image-to-image", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return req
}

func TestImageToImage_NotConfigured(t *testing.T) {
	w := httptest.NewRecorder()
	New(testConfig(), zap.NewNop()).Handler().ServeHTTP(w, uploadRequest(t, "blue", testPNG(t)))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to transform image","details":"API key not configured"}`, w.Body.String())
}

func TestImageToImage_PixelLimit(t *testing.T) {
	stability := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("provider must not be called for an oversized image")
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer stability.Close()

	cfg := testConfig()
	cfg.Stability.APIKey = "secret"
	cfg.Stability.BaseURL = stability.URL
	cfg.Stability.Engine = "test-engine"

	// 20000x20000 declared in the header, a few bytes on the wire
	data := testPNG(t)
	binary.BigEndian.PutUint32(data[16:20], 20000)
	binary.BigEndian.PutUint32(data[20:24], 20000)
	binary.BigEndian.PutUint32(data[29:33], crc32.ChecksumIEEE(data[12:29]))

	w := httptest.NewRecorder()
	New(cfg, zap.NewNop()).Handler().ServeHTTP(w, uploadRequest(t, "blue", data))

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var result map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&result))

	assert.Equal(t, "Invalid image", result["error"])
	assert.Contains(t, result["details"], "pixel limit")
}
