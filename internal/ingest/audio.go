package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// extractAudio converts a video to a mono 16kHz mp3 and returns its bytes.
// A small mp3 keeps each transcription chunk short.
func (i *implIngester) extractAudio(ctx context.Context, videoPath string) ([]byte, error) {
	tempDir, err := os.MkdirTemp(i.opts.TempDir, "extract-*")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	audioPath := filepath.Join(tempDir, "audio.mp3")

	i.logger.Info(ctx, "Extracting audio: %s", videoPath)

	args := []string{
		"-i", videoPath,
		"-vn",
		"-ac", "1",
		"-ar", "16000",
		"-c:a", "libmp3lame",
		"-b:a", "64k",
		"-y",
		audioPath,
	}
	if _, err := i.executor.Execute(ctx, i.opts.FFmpegPath, args...); err != nil {
		return nil, fmt.Errorf("ffmpeg extract audio: %w", err)
	}

	data, err := os.ReadFile(audioPath)
	if err != nil {
		return nil, fmt.Errorf("read extracted audio: %w", err)
	}
	i.logger.Info(ctx, "Audio extracted: %d bytes", len(data))
	return data, nil
}
