package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thanulingayath/reception-agent/internal/database"
	"github.com/thanulingayath/reception-agent/internal/models"
	"github.com/thanulingayath/reception-agent/internal/services/analyzer"
	"github.com/thanulingayath/reception-agent/internal/services/records"
	"github.com/thanulingayath/reception-agent/internal/services/transcription"
	apperrors "github.com/thanulingayath/reception-agent/pkg/errors"
	"github.com/thanulingayath/reception-agent/pkg/logger"
)

type stubSpeech struct {
	result *transcription.Result
	err    error
}

func (s *stubSpeech) Transcribe(ctx context.Context, path string, language string) (*transcription.Result, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

type stubTranslate struct {
	out string
	err error
}

func (s *stubTranslate) Translate(ctx context.Context, text string, source string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if s.out != "" {
		return s.out, nil
	}
	return text, nil
}

func setupRecords(t *testing.T) records.Service {
	t.Helper()

	db, err := database.Initialize(":memory:", false)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.AutoMigrate(&models.CallRecord{}))

	return records.NewService(records.NewRepository(db.DB))
}

func writeAudioFile(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("RIFF fake audio"), 0644))
	return path
}

func newTestPipeline(speech *stubSpeech, translate *stubTranslate, recs records.Service) *Pipeline {
	return New(speech, translate, analyzer.New(analyzer.DefaultTable()), recs,
		Options{DefaultLanguage: "hi-IN"}, logger.New().WithComponent("pipeline-test"))
}

func TestProcessPersistsRecord(t *testing.T) {
	recs := setupRecords(t)
	speech := &stubSpeech{result: &transcription.Result{Text: "मुझे रिफंड चाहिए", Language: "hi"}}
	translate := &stubTranslate{out: "I want a refund"}

	p := newTestPipeline(speech, translate, recs)

	record, err := p.Process(context.Background(), writeAudioFile(t, "call_007.wav"), "")
	require.NoError(t, err)

	assert.NotZero(t, record.ID)
	assert.Equal(t, "call_007.wav", record.Filename)
	assert.Equal(t, "मुझे रिफंड चाहिए", record.TranscribedText)
	assert.Equal(t, "I want a refund", record.TranslatedText)
	assert.Equal(t, "refund_request", record.Intent)
	assert.Equal(t, "neutral", record.Sentiment)
	assert.Equal(t, "hi", record.Language)
	assert.Contains(t, record.Analysis, "**Intent:** refund_request")
	assert.False(t, record.Timestamp.IsZero())

	// The stored row matches what came back
	stored, err := recs.GetByID(context.Background(), record.ID)
	require.NoError(t, err)
	assert.Equal(t, record.TranslatedText, stored.TranslatedText)
	assert.Equal(t, record.Intent, stored.Intent)
}

func TestProcessTranslationFailureFallsBack(t *testing.T) {
	recs := setupRecords(t)
	speech := &stubSpeech{result: &transcription.Result{Text: "some transcribed text", Language: "hi"}}
	translate := &stubTranslate{err: apperrors.ServiceError("translate", assert.AnError)}

	p := newTestPipeline(speech, translate, recs)

	record, err := p.Process(context.Background(), writeAudioFile(t, "call.wav"), "")
	require.NoError(t, err, "translation failure must not abort the pipeline")

	assert.Equal(t, "some transcribed text", record.TranscribedText)
	assert.Equal(t, "some transcribed text", record.TranslatedText)

	stored, err := recs.GetByID(context.Background(), record.ID)
	require.NoError(t, err)
	assert.Equal(t, "some transcribed text", stored.TranslatedText)
}

func TestProcessTranscriptionFailureAborts(t *testing.T) {
	recs := setupRecords(t)
	speech := &stubSpeech{err: apperrors.Wrap(assert.AnError, apperrors.ErrCodeServiceDown, "speech service unreachable")}

	p := newTestPipeline(speech, &stubTranslate{}, recs)

	_, err := p.Process(context.Background(), writeAudioFile(t, "call.wav"), "")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeServiceDown, apperrors.GetCode(err))

	// Nothing was stored
	list, err := recs.ListRecent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestProcessNoSpeechAborts(t *testing.T) {
	recs := setupRecords(t)
	speech := &stubSpeech{err: apperrors.NoSpeechError("call.wav")}

	p := newTestPipeline(speech, &stubTranslate{}, recs)

	_, err := p.Process(context.Background(), writeAudioFile(t, "call.wav"), "")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeNoSpeech, apperrors.GetCode(err))
}

func TestProcessMissingFile(t *testing.T) {
	p := newTestPipeline(&stubSpeech{}, &stubTranslate{}, setupRecords(t))

	_, err := p.Process(context.Background(), "/nonexistent/call.wav", "")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeInvalidInput, apperrors.GetCode(err))
}

func TestProcessUnsupportedFormat(t *testing.T) {
	recs := setupRecords(t)
	p := newTestPipeline(&stubSpeech{}, &stubTranslate{}, recs)

	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("not audio"), 0644))

	_, err := p.Process(context.Background(), path, "")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeUnsupportedFormat, apperrors.GetCode(err))
}

func TestProcessAsOverridesFilename(t *testing.T) {
	recs := setupRecords(t)
	speech := &stubSpeech{result: &transcription.Result{Text: "hello", Language: "en"}}

	p := newTestPipeline(speech, &stubTranslate{}, recs)

	record, err := p.ProcessAs(context.Background(), writeAudioFile(t, "abc123_upload.wav"), "", "upload.wav")
	require.NoError(t, err)
	assert.Equal(t, "upload.wav", record.Filename)
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected models.JobErrorType
	}{
		{"invalid input", apperrors.InputError("f.wav", "unreadable"), models.ErrorTypeInput},
		{"no speech", apperrors.NoSpeechError("f.wav"), models.ErrorTypeInput},
		{"service down", apperrors.New(apperrors.ErrCodeServiceDown, "down"), models.ErrorTypeService},
		{"external service", apperrors.ServiceError("speech", assert.AnError), models.ErrorTypeService},
		{"store", apperrors.StoreError("insert", assert.AnError), models.ErrorTypeStore},
		{"unknown", assert.AnError, models.ErrorTypeSystem},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classified := ClassifyError(tt.err)
			assert.Equal(t, tt.expected, classified.Type)
		})
	}
}
