package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/thanulingayath/reception-agent/internal/models"
	"github.com/thanulingayath/reception-agent/internal/services/analyzer"
	"github.com/thanulingayath/reception-agent/internal/services/records"
	"github.com/thanulingayath/reception-agent/pkg/audio"
	apperrors "github.com/thanulingayath/reception-agent/pkg/errors"
)

// NoSpeechText is stored as the transcription when the speech API finds no
// recognizable speech in an audio file.
const NoSpeechText = "Could not understand the audio"

// ProcessFunc runs the call pipeline for one audio file.
type ProcessFunc func(ctx context.Context, path string) (*models.CallRecord, error)

// Config holds watcher settings.
type Config struct {
	// Path is the directory to watch for new call recordings.
	Path string
	// ProcessedDir is the subdirectory name files are moved into after a
	// successful run. Defaults to "processed".
	ProcessedDir string
	// Extensions limits which files are picked up. Empty means the default
	// audio extensions.
	Extensions []string
	// ScanInterval is how often the directory is rescanned for files that
	// predate the watcher or whose events were missed.
	ScanInterval time.Duration
	// SettleDelay is how long a file must go without writes before it is
	// considered fully copied and safe to process.
	SettleDelay time.Duration
}

// Watcher picks up audio files dropped into a directory and feeds them
// through the processing pipeline one at a time.
type Watcher struct {
	cfg      Config
	process  ProcessFunc
	records  records.Service
	analyzer *analyzer.Analyzer
	log      *logrus.Entry

	mu      sync.Mutex
	pending map[string]time.Time
	active  map[string]bool
}

// New creates a watcher. process runs the pipeline for each settled file;
// recs is used to clean up records when their audio files are deleted.
func New(cfg Config, process ProcessFunc, recs records.Service, log *logrus.Entry) *Watcher {
	if cfg.ProcessedDir == "" {
		cfg.ProcessedDir = "processed"
	}
	if cfg.ScanInterval <= 0 {
		cfg.ScanInterval = 30 * time.Second
	}
	if cfg.SettleDelay <= 0 {
		cfg.SettleDelay = 2 * time.Second
	}
	return &Watcher{
		cfg:      cfg,
		process:  process,
		records:  recs,
		analyzer: analyzer.New(analyzer.DefaultTable()),
		log:      log,
		pending:  make(map[string]time.Time),
		active:   make(map[string]bool),
	}
}

func (w *Watcher) processedPath() string {
	return filepath.Join(w.cfg.Path, w.cfg.ProcessedDir)
}

// Run watches the directory until the context is cancelled. Files already
// present at startup are queued by the first scan.
func (w *Watcher) Run(ctx context.Context) error {
	if err := os.MkdirAll(w.cfg.Path, 0755); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeConfigInvalid, "cannot create watch directory")
	}
	if err := os.MkdirAll(w.processedPath(), 0755); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeConfigInvalid, "cannot create processed directory")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "cannot create filesystem watcher")
	}
	defer fsw.Close()

	if err := fsw.Add(w.cfg.Path); err != nil {
		return apperrors.Wrapf(err, apperrors.ErrCodeConfigInvalid, "cannot watch %s", w.cfg.Path)
	}

	w.log.WithFields(logrus.Fields{
		"path":          w.cfg.Path,
		"scan_interval": w.cfg.ScanInterval.String(),
	}).Info("Watching for call recordings")

	scanTicker := time.NewTicker(w.cfg.ScanInterval)
	defer scanTicker.Stop()

	settlePoll := w.cfg.SettleDelay / 2
	if settlePoll < 100*time.Millisecond {
		settlePoll = 100 * time.Millisecond
	}
	settleTicker := time.NewTicker(settlePoll)
	defer settleTicker.Stop()

	w.Scan(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, event)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.log.WithField("error", err.Error()).Warn("Filesystem watcher error")

		case <-scanTicker.C:
			w.Scan(ctx)

		case <-settleTicker.C:
			w.drainSettled(ctx)
		}
	}
}

func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	if !w.accepts(event.Name) {
		return
	}

	switch {
	case event.Op&(fsnotify.Create|fsnotify.Write) != 0:
		w.mu.Lock()
		if !w.active[event.Name] {
			w.pending[event.Name] = time.Now()
		}
		w.mu.Unlock()

	case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		w.mu.Lock()
		delete(w.pending, event.Name)
		w.mu.Unlock()

		filename := filepath.Base(event.Name)
		// A rename into processed/ is our own move, not a user deletion
		if _, err := os.Stat(filepath.Join(w.processedPath(), filename)); err == nil {
			return
		}
		if err := w.records.DeleteByFilename(ctx, filename); err != nil {
			w.log.WithFields(logrus.Fields{
				"filename": filename,
				"error":    err.Error(),
			}).Warn("Failed to delete record for removed file")
		} else {
			w.log.WithField("filename", filename).Info("Removed record for deleted file")
		}
	}
}

// Scan sweeps the watch directory and queues any audio file that is not in
// the processed subdirectory.
func (w *Watcher) Scan(ctx context.Context) {
	entries, err := os.ReadDir(w.cfg.Path)
	if err != nil {
		w.log.WithField("error", err.Error()).Warn("Directory scan failed")
		return
	}

	now := time.Now()
	w.mu.Lock()
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(w.cfg.Path, entry.Name())
		if !w.accepts(path) || w.active[path] {
			continue
		}
		if _, queued := w.pending[path]; !queued {
			// Backdate so a settled pre-existing file processes on the
			// next settle poll instead of waiting a full delay.
			w.pending[path] = now.Add(-w.cfg.SettleDelay)
		}
	}
	w.mu.Unlock()
}

// drainSettled processes every queued file whose last write is older than
// the settle delay. Files are handled sequentially in queue order.
func (w *Watcher) drainSettled(ctx context.Context) {
	cutoff := time.Now().Add(-w.cfg.SettleDelay)

	w.mu.Lock()
	var ready []string
	for path, last := range w.pending {
		if last.Before(cutoff) || last.Equal(cutoff) {
			ready = append(ready, path)
		}
	}
	for _, path := range ready {
		delete(w.pending, path)
		w.active[path] = true
	}
	w.mu.Unlock()

	for _, path := range ready {
		w.processFile(ctx, path)

		w.mu.Lock()
		delete(w.active, path)
		w.mu.Unlock()

		if ctx.Err() != nil {
			return
		}
	}
}

// processFile runs the pipeline for one file and relocates it on success.
// Failures are logged and leave the file in place for a later rescan.
func (w *Watcher) processFile(ctx context.Context, path string) {
	filename := filepath.Base(path)
	log := w.log.WithField("filename", filename)

	if _, err := os.Stat(path); err != nil {
		// File vanished between queueing and processing
		return
	}

	_, err := w.process(ctx, path)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrCodeNoSpeech) {
			w.storeNoSpeechRecord(ctx, filename)
			w.moveToProcessed(path, log)
			return
		}
		log.WithField("error", err.Error()).Error("Call processing failed")
		return
	}

	w.moveToProcessed(path, log)
}

// storeNoSpeechRecord keeps a row for audio with no recognizable speech so
// the call still shows up in history.
func (w *Watcher) storeNoSpeechRecord(ctx context.Context, filename string) {
	analysis := w.analyzer.Analyze(NoSpeechText)
	record := &models.CallRecord{
		Timestamp:       time.Now().UTC(),
		Filename:        filename,
		TranscribedText: NoSpeechText,
		TranslatedText:  NoSpeechText,
		Analysis:        analyzer.FormatText(analysis),
		Intent:          analysis.Intent,
		Sentiment:       analysis.Sentiment,
	}

	if _, err := w.records.Insert(ctx, record); err != nil {
		w.log.WithFields(logrus.Fields{
			"filename": filename,
			"error":    err.Error(),
		}).Error("Failed to store no-speech record")
		return
	}

	w.log.WithField("filename", filename).Warn("No speech detected, stored placeholder record")
}

func (w *Watcher) moveToProcessed(path string, log *logrus.Entry) {
	dest := filepath.Join(w.processedPath(), filepath.Base(path))
	if err := os.Rename(path, dest); err != nil {
		log.WithField("error", err.Error()).Warn("Failed to move file to processed directory")
		return
	}
	log.Debug("File moved to processed directory")
}

func (w *Watcher) accepts(path string) bool {
	// Files inside the processed subdirectory are done
	if filepath.Dir(path) == w.processedPath() {
		return false
	}
	return audio.IsAudioFile(path, w.cfg.Extensions)
}
