package transcription

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	apperrors "github.com/thanulingayath/reception-agent/pkg/errors"
)

// Config holds the speech API settings for a client instance.
type Config struct {
	APIURL      string
	APIKey      string
	Model       string
	Timeout     time.Duration
	MaxFileSize int64
}

// HTTPClient implements Client against an OpenAI-compatible
// /audio/transcriptions endpoint (multipart file upload).
type HTTPClient struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient creates a speech-to-text client from explicit configuration.
func NewClient(cfg Config) *HTTPClient {
	if cfg.Model == "" {
		cfg.Model = "whisper-1"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &HTTPClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type apiResponse struct {
	Text     string  `json:"text"`
	Language string  `json:"language,omitempty"`
	Duration float64 `json:"duration,omitempty"`
}

// Transcribe uploads the audio file and returns the recognized text.
func (c *HTTPClient) Transcribe(ctx context.Context, path string, language string) (*Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, apperrors.InputError(filepath.Base(path), "file not readable").WithCause(err)
	}
	if c.cfg.MaxFileSize > 0 && info.Size() > c.cfg.MaxFileSize {
		return nil, apperrors.InputError(filepath.Base(path),
			fmt.Sprintf("file size %d exceeds limit %d", info.Size(), c.cfg.MaxFileSize))
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, apperrors.InputError(filepath.Base(path), "failed to open file").WithCause(err)
	}
	defer file.Close()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, apperrors.ServiceError("speech", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, apperrors.InputError(filepath.Base(path), "failed to read file").WithCause(err)
	}

	_ = writer.WriteField("model", c.cfg.Model)
	_ = writer.WriteField("response_format", "verbose_json")
	if lang := baseLanguage(language); lang != "" {
		_ = writer.WriteField("language", lang)
	}
	if err := writer.Close(); err != nil {
		return nil, apperrors.ServiceError("speech", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), body)
	if err != nil {
		return nil, apperrors.ServiceError("speech", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeServiceDown, "speech service unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, apperrors.Newf(apperrors.ErrCodeExternalService,
			"speech API returned %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var out apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, apperrors.ServiceError("speech", err)
	}

	if strings.TrimSpace(out.Text) == "" {
		return nil, apperrors.NoSpeechError(filepath.Base(path))
	}

	return &Result{
		Text:     strings.TrimSpace(out.Text),
		Language: out.Language,
		Duration: out.Duration,
	}, nil
}

func (c *HTTPClient) endpoint() string {
	url := strings.TrimSuffix(c.cfg.APIURL, "/")
	if strings.HasSuffix(url, "/audio/transcriptions") {
		return url
	}
	return url + "/audio/transcriptions"
}

// baseLanguage reduces locale hints like "hi-IN" to the base code "hi".
func baseLanguage(language string) string {
	if i := strings.IndexByte(language, '-'); i > 0 {
		return language[:i]
	}
	return language
}
