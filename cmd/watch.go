package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/thanulingayath/reception-agent/internal/models"
	"github.com/thanulingayath/reception-agent/internal/services/watcher"
	"github.com/thanulingayath/reception-agent/pkg/config"
	"github.com/thanulingayath/reception-agent/pkg/logger"
)

var watchPath string

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch a folder for call recordings",
	Long: `Watch a folder for new call recordings and process each one through
the transcription pipeline.

Recordings are processed one at a time in arrival order. Successfully
processed files are moved into a processed/ subdirectory; deleting a
recording removes its call record.

Example:
  reception-agent watch
  reception-agent watch --path ./recordings`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVar(&watchPath, "path", "", "directory to watch (overrides config)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := config.GetConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if watchPath == "" {
		watchPath = cfg.Watcher.Path
	}

	log := logger.New().WithComponent("watch")

	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	deps := buildDependencies(cfg, db, log)

	w := watcher.New(watcher.Config{
		Path:         watchPath,
		ProcessedDir: cfg.Watcher.ProcessedDir,
		Extensions:   cfg.Watcher.Extensions,
		ScanInterval: cfg.Watcher.ScanInterval,
		SettleDelay:  cfg.Watcher.SettleDelay,
	}, func(ctx context.Context, path string) (*models.CallRecord, error) {
		return deps.Pipeline.Process(ctx, path, "")
	}, deps.RecordService, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-stop
		log.Info("Stopping watcher")
		cancel()
	}()

	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("watcher failed: %w", err)
	}

	log.Info("Watcher stopped")
	return nil
}
