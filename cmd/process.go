package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thanulingayath/reception-agent/pkg/config"
	"github.com/thanulingayath/reception-agent/pkg/logger"
)

var processLanguage string

// processCmd represents the process command
var processCmd = &cobra.Command{
	Use:   "process <file>",
	Short: "Process a single call recording",
	Long: `Run one audio file through the transcription pipeline and print the
resulting call record.

Example:
  reception-agent process call_001.wav
  reception-agent process call_002.mp3 --language hi-IN`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().StringVar(&processLanguage, "language", "", "locale hint for the speech API, e.g. en-US or hi-IN")
}

func runProcess(cmd *cobra.Command, args []string) error {
	cfg, err := config.GetConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logger.New().WithComponent("process")

	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	deps := buildDependencies(cfg, db, log)

	record, err := deps.Pipeline.Process(context.Background(), args[0], processLanguage)
	if err != nil {
		return fmt.Errorf("processing %s: %w", args[0], err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Record ID:   %d\n", record.ID)
	fmt.Fprintf(out, "Filename:    %s\n", record.Filename)
	fmt.Fprintf(out, "Language:    %s\n", record.Language)
	fmt.Fprintf(out, "Intent:      %s\n", record.Intent)
	fmt.Fprintf(out, "Sentiment:   %s\n", record.Sentiment)
	fmt.Fprintf(out, "\nTranscription:\n%s\n", record.TranscribedText)
	if record.TranslatedText != record.TranscribedText {
		fmt.Fprintf(out, "\nTranslation:\n%s\n", record.TranslatedText)
	}
	fmt.Fprintf(out, "\nAnalysis:\n%s\n", record.Analysis)

	return nil
}
