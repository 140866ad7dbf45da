package calls

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartUpload(t *testing.T, filename string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte("RIFF fake audio data"))
	require.NoError(t, err)

	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	require.NoError(t, writer.Close())

	return body, writer.FormDataContentType()
}

func TestPostAsyncEnqueuesJob(t *testing.T) {
	engine, jobSvc := setupRouter(t)

	body, contentType := multipartUpload(t, "call.wav", map[string]string{
		"async":    "true",
		"language": "hi-IN",
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/calls", body)
	req.Header.Set("Content-Type", contentType)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusAccepted, w.Code)

	var resp struct {
		Status string `json:"status"`
		JobID  uint   `json:"job_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "queued", resp.Status)
	require.NotZero(t, resp.JobID)

	job, err := jobSvc.GetJob(req.Context(), resp.JobID)
	require.NoError(t, err)

	filename, ok := job.GetPayloadValue("filename")
	require.True(t, ok)
	assert.Equal(t, "call.wav", filename)

	language, ok := job.GetPayloadValue("language")
	require.True(t, ok)
	assert.Equal(t, "hi-IN", language)
}

func TestPostAsyncDeduplicatesByPath(t *testing.T) {
	engine, _ := setupRouter(t)

	body, contentType := multipartUpload(t, "call.wav", map[string]string{"async": "true"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/calls", body)
	req.Header.Set("Content-Type", contentType)
	engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusAccepted, w.Code)

	// A second upload stages under a fresh UUID path, so it gets its own job
	body2, contentType2 := multipartUpload(t, "call.wav", map[string]string{"async": "true"})
	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodPost, "/api/v1/calls", body2)
	req2.Header.Set("Content-Type", contentType2)
	engine.ServeHTTP(w2, req2)
	require.Equal(t, http.StatusAccepted, w2.Code)

	var first, second struct {
		JobID uint `json:"job_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))
	require.NoError(t, json.Unmarshal(w2.Body.Bytes(), &second))
	assert.NotEqual(t, first.JobID, second.JobID)
}

func TestPostUnsupportedFormat(t *testing.T) {
	engine, _ := setupRouter(t)

	body, contentType := multipartUpload(t, "notes.txt", nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/calls", body)
	req.Header.Set("Content-Type", contentType)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
