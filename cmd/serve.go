package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/thanulingayath/reception-agent/api"
	"github.com/thanulingayath/reception-agent/internal/services/workers"
	"github.com/thanulingayath/reception-agent/pkg/config"
	"github.com/thanulingayath/reception-agent/pkg/logger"
)

var (
	serverHost string
	serverPort int
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Long: `Start the Reception Agent API server with the configured settings.

The server accepts call recording uploads, serves the call history, and
runs a worker pool for async processing jobs.

Example:
  reception-agent serve
  reception-agent serve --port 9090
  reception-agent serve --host 0.0.0.0 --port 8080`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serverHost, "host", "", "server host (overrides config)")
	serveCmd.Flags().IntVar(&serverPort, "port", 0, "server port (overrides config)")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.GetConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if serverHost == "" {
		serverHost = cfg.Server.Host
	}
	if serverPort == 0 {
		serverPort = cfg.Server.Port
	}

	log := logger.New().WithComponent("serve")

	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	deps := buildDependencies(cfg, db, log)

	// Worker pool for async upload jobs
	pool := workers.NewWorkerPool(deps.JobService, cfg.Processing.Workers, cfg.Processing.PollInterval, log)
	pool.RegisterProcessor(workers.NewCallProcessor(deps.Pipeline, deps.JobService, log))
	deps.WorkerPool = pool

	poolCtx, poolCancel := context.WithCancel(context.Background())
	defer poolCancel()

	if err := pool.Start(poolCtx); err != nil {
		return fmt.Errorf("starting worker pool: %w", err)
	}
	defer pool.Stop()

	address := fmt.Sprintf("%s:%d", serverHost, serverPort)
	server := api.NewServer(address)
	server.SetDependencies(deps)
	if err := server.Initialize(); err != nil {
		return fmt.Errorf("initializing server: %w", err)
	}

	log.WithField("address", address).Info("Starting Reception Agent API server")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			serverErr <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-stop:
		log.Info("Shutting down server")
	case err := <-serverErr:
		log.WithField("error", err.Error()).Error("Server failed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("Server gracefully stopped")
	return nil
}
