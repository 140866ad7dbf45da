package translation

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/thanulingayath/reception-agent/pkg/errors"
)

// Client defines the interface for translate-to-English operations.
type Client interface {
	// Translate converts text to the target language. source is a locale
	// hint like "hi-IN" or "auto"; text already in the target language is
	// returned unchanged.
	Translate(ctx context.Context, text string, source string) (string, error)
}

// Config holds the translation API settings for a client instance.
type Config struct {
	APIURL         string
	APIKey         string
	TargetLanguage string
	Timeout        time.Duration
}

// HTTPClient implements Client against a Google-Translate-v2-style endpoint.
type HTTPClient struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient creates a translation client from explicit configuration.
func NewClient(cfg Config) *HTTPClient {
	if cfg.TargetLanguage == "" {
		cfg.TargetLanguage = "en"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type translateRequest struct {
	Q      string `json:"q"`
	Source string `json:"source,omitempty"`
	Target string `json:"target"`
	Format string `json:"format"`
}

type translateResponse struct {
	Data struct {
		Translations []struct {
			TranslatedText         string `json:"translatedText"`
			DetectedSourceLanguage string `json:"detectedSourceLanguage,omitempty"`
		} `json:"translations"`
	} `json:"data"`
}

// Translate sends text to the translation API and returns the result.
func (c *HTTPClient) Translate(ctx context.Context, text string, source string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return text, nil
	}

	src := baseLanguage(source)
	// Already in the target language: identity, no network call.
	if src == c.cfg.TargetLanguage {
		return text, nil
	}
	if src == "auto" {
		src = ""
	}

	payload := translateRequest{
		Q:      text,
		Source: src,
		Target: c.cfg.TargetLanguage,
		Format: "text",
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", apperrors.ServiceError("translate", err)
	}

	url := c.cfg.APIURL
	if c.cfg.APIKey != "" {
		sep := "?"
		if strings.Contains(url, "?") {
			sep = "&"
		}
		url += sep + "key=" + c.cfg.APIKey
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", apperrors.ServiceError("translate", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrCodeServiceDown, "translation service unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", apperrors.Newf(apperrors.ErrCodeExternalService,
			"translate API returned %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var out translateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", apperrors.ServiceError("translate", err)
	}

	if len(out.Data.Translations) == 0 {
		return "", apperrors.New(apperrors.ErrCodeExternalService, "translate API returned no translations")
	}

	return out.Data.Translations[0].TranslatedText, nil
}

// baseLanguage reduces locale hints like "en-US" to the base code "en".
func baseLanguage(language string) string {
	language = strings.ToLower(strings.TrimSpace(language))
	if i := strings.IndexByte(language, '-'); i > 0 {
		return language[:i]
	}
	return language
}
