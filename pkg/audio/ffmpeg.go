package audio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Converter wraps ffmpeg and ffprobe for audio normalization.
// The speech API expects WAV input, so non-WAV uploads get converted first.
type Converter struct {
	ffmpegPath  string
	ffprobePath string
	timeout     time.Duration
}

// NewConverter creates a new Converter instance
func NewConverter(ffmpegPath, ffprobePath string, timeout time.Duration) *Converter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Converter{
		ffmpegPath:  ffmpegPath,
		ffprobePath: ffprobePath,
		timeout:     timeout,
	}
}

// ValidateBinaries checks if ffmpeg and ffprobe are available
func (c *Converter) ValidateBinaries() error {
	if _, err := exec.LookPath(c.ffmpegPath); err != nil {
		return fmt.Errorf("%w: %s", ErrFFmpegNotFound, c.ffmpegPath)
	}
	if _, err := exec.LookPath(c.ffprobePath); err != nil {
		return fmt.Errorf("%w: %s", ErrFFprobeNotFound, c.ffprobePath)
	}
	return nil
}

// ToWAV converts the input file to a 16kHz mono WAV in tempDir and returns
// the converted path plus a cleanup func. WAV input is returned unchanged
// with a no-op cleanup.
func (c *Converter) ToWAV(ctx context.Context, inputPath, tempDir string) (string, func() error, error) {
	if IsWAV(inputPath) {
		return inputPath, func() error { return nil }, nil
	}

	if tempDir == "" {
		tempDir = os.TempDir()
	}
	if err := os.MkdirAll(tempDir, 0755); err != nil {
		return "", nil, NewProcessingError("temp_dir_creation", inputPath, err, "")
	}

	outFile, err := os.CreateTemp(tempDir, "convert_*.wav")
	if err != nil {
		return "", nil, NewProcessingError("temp_file_creation", inputPath, err, "")
	}
	outPath := outFile.Name()
	outFile.Close()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	args := []string{
		"-y",
		"-i", inputPath,
		"-ar", "16000",
		"-ac", "1",
		"-f", "wav",
		outPath,
	}

	cmd := exec.CommandContext(ctx, c.ffmpegPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		os.Remove(outPath)
		return "", nil, NewProcessingError("conversion", filepath.Base(inputPath), err, stderr.String())
	}

	cleanup := func() error { return os.Remove(outPath) }
	return outPath, cleanup, nil
}

// ffprobeOutput represents the JSON structure returned by ffprobe
type ffprobeOutput struct {
	Format struct {
		Duration   string `json:"duration"`
		FormatName string `json:"format_name"`
	} `json:"format"`
	Streams []struct {
		CodecType  string `json:"codec_type"`
		CodecName  string `json:"codec_name"`
		SampleRate string `json:"sample_rate"`
		Channels   int    `json:"channels"`
	} `json:"streams"`
}

// Metadata holds the subset of ffprobe output the pipeline cares about.
type Metadata struct {
	Duration   float64
	Format     string
	Codec      string
	SampleRate int
	Channels   int
}

// Probe extracts metadata from an audio file using ffprobe
func (c *Converter) Probe(ctx context.Context, filePath string) (*Metadata, error) {
	args := []string{
		"-v", "quiet",
		"-show_format",
		"-show_streams",
		"-select_streams", "a:0",
		"-of", "json",
		filePath,
	}

	cmd := exec.CommandContext(ctx, c.ffprobePath, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, NewProcessingError("metadata_extraction", filePath, err, stderr.String())
	}

	var output ffprobeOutput
	if err := json.Unmarshal(stdout.Bytes(), &output); err != nil {
		return nil, NewProcessingError("metadata_parsing", filePath, err, "")
	}

	meta := &Metadata{Format: output.Format.FormatName}
	if output.Format.Duration != "" {
		if d, err := strconv.ParseFloat(output.Format.Duration, 64); err == nil {
			meta.Duration = d
		}
	}

	for _, stream := range output.Streams {
		if stream.CodecType != "audio" {
			continue
		}
		meta.Codec = stream.CodecName
		meta.Channels = stream.Channels
		if sr, err := strconv.Atoi(stream.SampleRate); err == nil {
			meta.SampleRate = sr
		}
		break
	}

	if meta.Codec == "" && !strings.Contains(meta.Format, "wav") {
		return nil, fmt.Errorf("%w: no audio stream in %s", ErrInvalidAudioFile, filepath.Base(filePath))
	}

	return meta, nil
}
