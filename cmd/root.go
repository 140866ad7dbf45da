package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thanulingayath/reception-agent/pkg/config"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "reception-agent",
	Short: "Call transcription and analysis service",
	Long: `Reception Agent - automated call transcription and analysis

Watches a folder for call recordings (or accepts uploads over HTTP),
transcribes them with a speech-to-text API, translates the transcription
to English, runs a keyword analysis for intent and sentiment, and stores
the result as a call record.

Features:
  • Folder watcher for dropped call recordings
  • HTTP API for uploads, history, search, and export
  • Background job queue for async processing
  • Keyword analysis: intent, sentiment, action items, summary`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// NewRootCmd creates a new root command (exported for testing)
func NewRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	cobra.OnInitialize(loadConfig)

	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("json-logs", false, "enable JSON formatted logs")
}

// loadConfig loads the configuration when a command needs it
func loadConfig() {
	// Version and help never need config
	cmd, _, _ := rootCmd.Find(os.Args[1:])
	if cmd != nil && (cmd.Name() == "version" || cmd.Name() == "help") {
		return
	}

	if err := config.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing config: %v\n", err)
		os.Exit(1)
	}
}
