package audio

import "testing"

func TestIsAudioFile(t *testing.T) {
	tests := []struct {
		path       string
		extensions []string
		want       bool
	}{
		{"call.wav", nil, true},
		{"call.mp3", nil, true},
		{"CALL.WAV", nil, true},
		{"call.m4a", nil, true},
		{"notes.txt", nil, false},
		{"call", nil, false},
		{"/tmp/recordings/call.ogg", nil, true},
		{"call.mp3", []string{".wav"}, false},
		{"call.wav", []string{".WAV"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := IsAudioFile(tt.path, tt.extensions); got != tt.want {
				t.Errorf("IsAudioFile(%q, %v) = %v, want %v", tt.path, tt.extensions, got, tt.want)
			}
		})
	}
}

func TestIsWAV(t *testing.T) {
	if !IsWAV("call.wav") {
		t.Error("Expected call.wav to be WAV")
	}
	if !IsWAV("call.WAV") {
		t.Error("Expected extension match to be case-insensitive")
	}
	if IsWAV("call.mp3") {
		t.Error("Expected call.mp3 not to be WAV")
	}
}
