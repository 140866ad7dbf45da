package calls_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/thanulingayath/reception-agent/api"
	"github.com/thanulingayath/reception-agent/api/types"
	"github.com/thanulingayath/reception-agent/internal/database"
	"github.com/thanulingayath/reception-agent/internal/models"
	jobsService "github.com/thanulingayath/reception-agent/internal/services/jobs"
	"github.com/thanulingayath/reception-agent/internal/services/pipeline"
	recordsService "github.com/thanulingayath/reception-agent/internal/services/records"
	"github.com/thanulingayath/reception-agent/internal/services/transcription"
	"github.com/thanulingayath/reception-agent/internal/services/workers"
	"github.com/thanulingayath/reception-agent/pkg/logger"
)

type stubSpeech struct {
	text     string
	language string
}

func (s *stubSpeech) Transcribe(ctx context.Context, path string, language string) (*transcription.Result, error) {
	return &transcription.Result{Text: s.text, Language: s.language}, nil
}

type stubTranslate struct {
	translated string
}

func (s *stubTranslate) Translate(ctx context.Context, text string, source string) (string, error) {
	if s.translated != "" {
		return s.translated, nil
	}
	return text, nil
}

type IntegrationTestSuite struct {
	t      *testing.T
	db     *gorm.DB
	deps   *types.Dependencies
	router *gin.Engine
}

func setupIntegrationTestSuite(t *testing.T, speech *stubSpeech, translate *stubTranslate) *IntegrationTestSuite {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err, "Failed to connect to test database")

	err = db.AutoMigrate(&models.CallRecord{}, &models.Job{})
	require.NoError(t, err, "Failed to migrate test database")

	log := logger.New().WithComponent("integration")
	recSvc := recordsService.NewService(recordsService.NewRepository(db))
	jobSvc := jobsService.NewService(jobsService.NewRepository(db), log)

	pipe := pipeline.New(speech, translate, nil, recSvc, pipeline.Options{}, log)

	deps := &types.Dependencies{
		DB:            &database.DB{DB: db},
		RecordService: recSvc,
		JobService:    jobSvc,
		Pipeline:      pipe,
		Log:           log,
		UploadDir:     t.TempDir(),
	}

	router := gin.New()
	router.Use(gin.Recovery())

	rateLimiters := &sync.Map{}
	cleanupStop := make(chan struct{})
	cleanupInitialized := &sync.Once{}

	err = api.RegisterRoutes(router, deps, rateLimiters, cleanupStop, cleanupInitialized)
	require.NoError(t, err, "Failed to register routes")

	return &IntegrationTestSuite{t: t, db: db, deps: deps, router: router}
}

func (suite *IntegrationTestSuite) uploadCall(filename string, fields map[string]string) *httptest.ResponseRecorder {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", filename)
	require.NoError(suite.t, err)
	_, err = part.Write([]byte("RIFF fake audio data"))
	require.NoError(suite.t, err)

	for key, value := range fields {
		require.NoError(suite.t, writer.WriteField(key, value))
	}
	require.NoError(suite.t, writer.Close())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/calls", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	suite.router.ServeHTTP(w, req)
	return w
}

func TestSyncUploadStoresRecord(t *testing.T) {
	speech := &stubSpeech{text: "मुझे रिफंड चाहिए", language: "hi"}
	translate := &stubTranslate{translated: "I want a refund for this product"}
	suite := setupIntegrationTestSuite(t, speech, translate)

	w := suite.uploadCall("complaint.wav", map[string]string{"language": "hi-IN"})
	require.Equal(t, http.StatusCreated, w.Code, "Response: %s", w.Body.String())

	var resp struct {
		Status string            `json:"status"`
		Record models.CallRecord `json:"record"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "complaint.wav", resp.Record.Filename)
	assert.Equal(t, "refund_request", resp.Record.Intent)
	assert.Equal(t, "I want a refund for this product", resp.Record.TranslatedText)

	// The record must be visible through the listing endpoint
	listW := httptest.NewRecorder()
	listReq := httptest.NewRequest(http.MethodGet, "/api/v1/records", nil)
	suite.router.ServeHTTP(listW, listReq)
	require.Equal(t, http.StatusOK, listW.Code)

	var listResp struct {
		Count   int                 `json:"count"`
		Records []models.CallRecord `json:"records"`
	}
	require.NoError(t, json.Unmarshal(listW.Body.Bytes(), &listResp))
	require.Equal(t, 1, listResp.Count)
	assert.Equal(t, resp.Record.ID, listResp.Records[0].ID)

	// And searchable by its translated content
	searchW := httptest.NewRecorder()
	searchReq := httptest.NewRequest(http.MethodGet, "/api/v1/records/search?q=refund", nil)
	suite.router.ServeHTTP(searchW, searchReq)
	require.Equal(t, http.StatusOK, searchW.Code)

	var searchResp struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(searchW.Body.Bytes(), &searchResp))
	assert.Equal(t, 1, searchResp.Count)
}

func TestAsyncUploadProcessedByWorker(t *testing.T) {
	speech := &stubSpeech{text: "the screen is broken and nothing works", language: "en"}
	translate := &stubTranslate{}
	suite := setupIntegrationTestSuite(t, speech, translate)

	log := logger.New().WithComponent("integration")
	pool := workers.NewWorkerPool(suite.deps.JobService, 1, 10*time.Millisecond, log)
	pool.RegisterProcessor(workers.NewCallProcessor(suite.deps.Pipeline, suite.deps.JobService, log))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, pool.Start(ctx))
	defer pool.Stop()

	w := suite.uploadCall("broken-screen.wav", map[string]string{"async": "true"})
	require.Equal(t, http.StatusAccepted, w.Code, "Response: %s", w.Body.String())

	var resp struct {
		JobID uint `json:"job_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotZero(t, resp.JobID)

	// Poll the job status endpoint until the worker completes the job
	jobURL := fmt.Sprintf("/api/v1/calls/jobs/%d", resp.JobID)
	deadline := time.Now().Add(5 * time.Second)
	var jobResp struct {
		State    string                 `json:"state"`
		Progress int                    `json:"progress"`
		Result   map[string]interface{} `json:"result"`
	}
	for {
		jobW := httptest.NewRecorder()
		jobReq := httptest.NewRequest(http.MethodGet, jobURL, nil)
		suite.router.ServeHTTP(jobW, jobReq)
		require.Equal(t, http.StatusOK, jobW.Code)
		require.NoError(t, json.Unmarshal(jobW.Body.Bytes(), &jobResp))

		if jobResp.State == string(models.JobStatusCompleted) {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("Job never completed, last state %q", jobResp.State)
		}
		time.Sleep(20 * time.Millisecond)
	}

	assert.Equal(t, 100, jobResp.Progress)
	require.NotNil(t, jobResp.Result)
	assert.Equal(t, "broken-screen.wav", jobResp.Result["filename"])
	assert.Equal(t, "technical_support", jobResp.Result["intent"])

	// The processed record lands in the call history
	listW := httptest.NewRecorder()
	listReq := httptest.NewRequest(http.MethodGet, "/api/v1/records", nil)
	suite.router.ServeHTTP(listW, listReq)
	require.Equal(t, http.StatusOK, listW.Code)

	var listResp struct {
		Count   int                 `json:"count"`
		Records []models.CallRecord `json:"records"`
	}
	require.NoError(t, json.Unmarshal(listW.Body.Bytes(), &listResp))
	require.Equal(t, 1, listResp.Count)
	assert.Equal(t, "broken-screen.wav", listResp.Records[0].Filename)
}

func TestHealthEndpoint(t *testing.T) {
	suite := setupIntegrationTestSuite(t, &stubSpeech{text: "hello"}, &stubTranslate{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	suite.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Status   string `json:"status"`
		Database struct {
			Status string `json:"status"`
		} `json:"database"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "healthy", resp.Database.Status)
}

func TestUnknownRouteReturns404(t *testing.T) {
	suite := setupIntegrationTestSuite(t, &stubSpeech{text: "hello"}, &stubTranslate{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/nothing", nil)
	suite.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
