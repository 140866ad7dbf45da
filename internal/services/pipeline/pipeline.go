package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/thanulingayath/reception-agent/internal/models"
	"github.com/thanulingayath/reception-agent/internal/services/analyzer"
	"github.com/thanulingayath/reception-agent/internal/services/records"
	"github.com/thanulingayath/reception-agent/internal/services/transcription"
	"github.com/thanulingayath/reception-agent/internal/services/translation"
	"github.com/thanulingayath/reception-agent/pkg/audio"
	apperrors "github.com/thanulingayath/reception-agent/pkg/errors"
)

// Pipeline runs the full call processing flow for a single audio file:
// transcribe, translate to English, analyze keywords, persist the record.
type Pipeline struct {
	speech    transcription.Client
	translate translation.Client
	analyzer  *analyzer.Analyzer
	records   records.Service
	converter *audio.Converter

	language string
	tempDir  string
	log      *logrus.Entry
}

// Options configures optional pipeline behavior.
type Options struct {
	// DefaultLanguage is the locale hint passed to the speech API when the
	// caller does not provide one, e.g. "en-US" or "hi-IN".
	DefaultLanguage string
	// Converter normalizes non-WAV uploads before transcription. Nil skips
	// conversion and sends the file as-is.
	Converter *audio.Converter
	// TempDir holds intermediate converted files.
	TempDir string
}

// New creates a processing pipeline from its stage dependencies.
func New(speech transcription.Client, translate translation.Client, an *analyzer.Analyzer, recs records.Service, opts Options, log *logrus.Entry) *Pipeline {
	if an == nil {
		an = analyzer.New(analyzer.DefaultTable())
	}
	lang := opts.DefaultLanguage
	if lang == "" {
		lang = "en-US"
	}
	return &Pipeline{
		speech:    speech,
		translate: translate,
		analyzer:  an,
		records:   recs,
		converter: opts.Converter,
		language:  lang,
		tempDir:   opts.TempDir,
		log:       log,
	}
}

// Process runs the full pipeline for one audio file and returns the
// persisted call record. language overrides the default locale hint when
// non-empty.
func (p *Pipeline) Process(ctx context.Context, filePath string, language string) (*models.CallRecord, error) {
	return p.ProcessAs(ctx, filePath, language, "")
}

// ProcessAs is Process with an explicit filename to record. Uploads staged
// under a temporary name pass the original filename here.
func (p *Pipeline) ProcessAs(ctx context.Context, filePath string, language string, filename string) (*models.CallRecord, error) {
	started := time.Now()
	if filename == "" {
		filename = filepath.Base(filePath)
	}

	if language == "" {
		language = p.language
	}

	log := p.log.WithFields(logrus.Fields{
		"filename": filename,
		"language": language,
	})

	if _, err := os.Stat(filePath); err != nil {
		return nil, apperrors.InputError(filename, "file not readable").WithCause(err)
	}
	if !audio.IsAudioFile(filePath, nil) {
		return nil, apperrors.New(apperrors.ErrCodeUnsupportedFormat, "unsupported audio format").
			WithDetail("filename", filename)
	}

	audioPath := filePath
	if p.converter != nil {
		converted, cleanup, err := p.converter.ToWAV(ctx, filePath, p.tempDir)
		if err != nil {
			return nil, apperrors.InputError(filename, "audio conversion failed").WithCause(err)
		}
		defer func() {
			if cerr := cleanup(); cerr != nil {
				log.WithField("error", cerr.Error()).Warn("Failed to remove converted file")
			}
		}()
		audioPath = converted
	}

	result, err := p.speech.Transcribe(ctx, audioPath, language)
	if err != nil {
		return nil, err
	}
	log.WithField("chars", len(result.Text)).Debug("Transcription complete")

	sourceLang := result.Language
	if sourceLang == "" {
		sourceLang = language
	}

	// Translation failure is not fatal: the raw transcription still carries
	// the call content, so fall back to it and keep going.
	translated, err := p.translate.Translate(ctx, result.Text, sourceLang)
	if err != nil {
		log.WithField("error", err.Error()).Warn("Translation failed, storing raw transcription")
		translated = result.Text
	}

	analysis := p.analyzer.Analyze(translated)

	record := &models.CallRecord{
		Timestamp:       time.Now().UTC(),
		Filename:        filename,
		TranscribedText: result.Text,
		TranslatedText:  translated,
		Analysis:        analyzer.FormatText(analysis),
		Intent:          analysis.Intent,
		Sentiment:       analysis.Sentiment,
		Language:        sourceLang,
	}

	if _, err := p.records.Insert(ctx, record); err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"record_id": record.ID,
		"intent":    analysis.Intent,
		"sentiment": analysis.Sentiment,
		"elapsed":   time.Since(started).Round(time.Millisecond).String(),
	}).Info("Call processed")

	return record, nil
}

// ClassifyError maps a pipeline error onto the job error taxonomy so the
// queue can decide whether a retry is worthwhile.
func ClassifyError(err error) *models.StructuredJobError {
	code := apperrors.GetCode(err)
	switch code {
	case apperrors.ErrCodeInvalidInput, apperrors.ErrCodeUnsupportedFormat,
		apperrors.ErrCodeValidation, apperrors.ErrCodeMissingField,
		apperrors.ErrCodeNoSpeech:
		return models.NewInputError(string(code), err.Error(), "", err)
	case apperrors.ErrCodeExternalService, apperrors.ErrCodeAPITimeout,
		apperrors.ErrCodeServiceDown:
		return models.NewServiceError(string(code), err.Error(), "", err)
	case apperrors.ErrCodeDatabaseConnection, apperrors.ErrCodeDatabaseQuery,
		apperrors.ErrCodeConstraint:
		return models.NewStoreError(string(code), err.Error(), "", err)
	default:
		return models.NewSystemError(string(code), err.Error(), "", err)
	}
}
