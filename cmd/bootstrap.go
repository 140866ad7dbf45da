package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/thanulingayath/reception-agent/api/types"
	"github.com/thanulingayath/reception-agent/internal/database"
	"github.com/thanulingayath/reception-agent/internal/models"
	"github.com/thanulingayath/reception-agent/internal/services/analyzer"
	"github.com/thanulingayath/reception-agent/internal/services/jobs"
	"github.com/thanulingayath/reception-agent/internal/services/pipeline"
	"github.com/thanulingayath/reception-agent/internal/services/records"
	"github.com/thanulingayath/reception-agent/internal/services/transcription"
	"github.com/thanulingayath/reception-agent/internal/services/translation"
	"github.com/thanulingayath/reception-agent/pkg/audio"
	"github.com/thanulingayath/reception-agent/pkg/config"
)

// openDatabase connects to SQLite and migrates the schema
func openDatabase(cfg *config.Config) (*database.DB, error) {
	db, err := database.Initialize(cfg.Database.Path, cfg.Database.Verbose)
	if err != nil {
		return nil, fmt.Errorf("initializing database: %w", err)
	}

	if err := db.AutoMigrate(&models.CallRecord{}, &models.Job{}); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}

	return db, nil
}

// buildDependencies wires the service graph shared by serve, watch, and
// process commands
func buildDependencies(cfg *config.Config, db *database.DB, log *logrus.Entry) *types.Dependencies {
	recordService := records.NewService(records.NewRepository(db.DB))
	jobService := jobs.NewService(jobs.NewRepository(db.DB), log)

	speechClient := transcription.NewClient(transcription.Config{
		APIURL:      cfg.Speech.APIURL,
		APIKey:      cfg.Speech.APIKey,
		Model:       cfg.Speech.Model,
		Timeout:     cfg.Speech.Timeout,
		MaxFileSize: cfg.Speech.MaxFileSize,
	})

	translateClient := translation.NewClient(translation.Config{
		APIURL:         cfg.Translate.APIURL,
		APIKey:         cfg.Translate.APIKey,
		TargetLanguage: cfg.Translate.TargetLanguage,
		Timeout:        cfg.Translate.Timeout,
	})

	converter := audio.NewConverter(cfg.Processing.FFmpegPath, cfg.Processing.FFprobePath, cfg.Processing.FFmpegTimeout)
	if err := converter.ValidateBinaries(); err != nil {
		// The pipeline still handles WAV files without ffmpeg
		log.WithField("error", err.Error()).Warn("ffmpeg not available, non-WAV uploads will fail")
		converter = nil
	}

	pipe := pipeline.New(speechClient, translateClient, analyzer.New(analyzer.DefaultTable()), recordService,
		pipeline.Options{
			DefaultLanguage: cfg.Speech.DefaultLanguage,
			Converter:       converter,
			TempDir:         cfg.Storage.TempDir,
		}, log)

	return &types.Dependencies{
		DB:            db,
		RecordService: recordService,
		JobService:    jobService,
		Pipeline:      pipe,
		Config:        cfg,
		Log:           log,
		UploadDir:     cfg.Storage.TempDir,
	}
}
