package audio

import (
	"path/filepath"
	"strings"
)

// DefaultExtensions lists the audio file extensions the pipeline accepts.
var DefaultExtensions = []string{".wav", ".mp3", ".m4a", ".ogg", ".webm"}

// IsAudioFile reports whether the path has one of the given audio extensions.
// An empty extension list falls back to DefaultExtensions.
func IsAudioFile(path string, extensions []string) bool {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range extensions {
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}

// IsWAV reports whether the path already carries a .wav extension.
func IsWAV(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".wav")
}
