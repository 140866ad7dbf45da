package transcription

import "context"

// Result holds the speech-to-text output for one audio file.
type Result struct {
	Text     string  // Recognized text in the original spoken language
	Language string  // Language reported by the service, if any
	Duration float64 // Audio duration in seconds, if reported
}

// Client defines the interface for speech-to-text operations.
// Implementations return an error wrapping ErrCodeNoSpeech when the service
// processed the audio but found nothing to recognize, and an external
// service error for transport or API failures.
type Client interface {
	// Transcribe sends the audio file at path to the speech API.
	// language is a locale hint such as "en-US"; empty means service default.
	Transcribe(ctx context.Context, path string, language string) (*Result, error)
}
