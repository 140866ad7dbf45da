package transcription

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/thanulingayath/reception-agent/pkg/errors"
)

func writeTempAudio(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("RIFF fake wav data"), 0644))
	return path
}

func TestTranscribeSuccess(t *testing.T) {
	var gotModel, gotLanguage string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotModel = r.FormValue("model")
		gotLanguage = r.FormValue("language")

		_, _, err := r.FormFile("file")
		require.NoError(t, err)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text":"  Hello, I need help with my order  ","language":"en","duration":4.2}`))
	}))
	defer server.Close()

	client := NewClient(Config{
		APIURL:  server.URL,
		APIKey:  "test-key",
		Model:   "whisper-1",
		Timeout: 5 * time.Second,
	})

	result, err := client.Transcribe(context.Background(), writeTempAudio(t, "call.wav"), "en-US")
	require.NoError(t, err)

	assert.Equal(t, "Hello, I need help with my order", result.Text)
	assert.Equal(t, "en", result.Language)
	assert.InDelta(t, 4.2, result.Duration, 0.001)
	assert.Equal(t, "whisper-1", gotModel)
	assert.Equal(t, "en", gotLanguage, "locale hint should be reduced to the base code")
}

func TestTranscribeNoSpeech(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text":"   "}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIURL: server.URL})

	result, err := client.Transcribe(context.Background(), writeTempAudio(t, "silence.wav"), "en")
	assert.Nil(t, result)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeNoSpeech, apperrors.GetCode(err))
}

func TestTranscribeServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(Config{APIURL: server.URL})

	_, err := client.Transcribe(context.Background(), writeTempAudio(t, "call.wav"), "en")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeExternalService, apperrors.GetCode(err))
}

func TestTranscribeMissingFile(t *testing.T) {
	client := NewClient(Config{APIURL: "http://localhost:1"})

	_, err := client.Transcribe(context.Background(), "/nonexistent/call.wav", "en")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeInvalidInput, apperrors.GetCode(err))
}

func TestTranscribeFileTooLarge(t *testing.T) {
	client := NewClient(Config{APIURL: "http://localhost:1", MaxFileSize: 4})

	_, err := client.Transcribe(context.Background(), writeTempAudio(t, "big.wav"), "en")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeInvalidInput, apperrors.GetCode(err))
}

func TestTranscribeServiceUnreachable(t *testing.T) {
	// Reserved port with nothing listening
	client := NewClient(Config{APIURL: "http://127.0.0.1:1", Timeout: time.Second})

	_, err := client.Transcribe(context.Background(), writeTempAudio(t, "call.wav"), "en")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeServiceDown, apperrors.GetCode(err))
}

func TestEndpointSuffix(t *testing.T) {
	client := NewClient(Config{APIURL: "https://api.example.com/v1"})
	assert.Equal(t, "https://api.example.com/v1/audio/transcriptions", client.endpoint())

	client = NewClient(Config{APIURL: "https://api.example.com/v1/audio/transcriptions"})
	assert.Equal(t, "https://api.example.com/v1/audio/transcriptions", client.endpoint())
}
