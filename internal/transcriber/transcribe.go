package transcriber

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nguyentantai21042004/minutes-worker/internal/metrics"
	"github.com/nguyentantai21042004/minutes-worker/internal/models"
)

const defaultContentType = "audio/mpeg"

// chunk is a slice of the input audio, index = position in the input.
type chunk struct {
	index int
	data  []byte
}

// ChunkError records a failed speech-to-text call for one chunk.
type ChunkError struct {
	Index   int
	Attempt int
	Err     error
}

func (e *ChunkError) Error() string {
	return fmt.Sprintf("chunk %d attempt %d: %v", e.Index+1, e.Attempt, e.Err)
}

func (e *ChunkError) Unwrap() error {
	return e.Err
}

// Transcribe splits the audio into fixed-size chunks, transcribes them with
// bounded concurrency and stitches the results in chunk order.
func (t *implTranscriber) Transcribe(ctx context.Context, obj *models.Object) (Result, error) {
	contentType := obj.ContentType
	if contentType == "" {
		contentType = defaultContentType
	}

	t.logger.Info(ctx, "Audio size: %d bytes, content type: %s", obj.Size(), contentType)

	if strings.HasPrefix(contentType, "video/") {
		return Result{}, fmt.Errorf("%w: %s: video files cannot be transcribed directly, upload an extracted audio track",
			models.ErrUnsupportedMedia, contentType)
	}

	chunks := splitChunks(obj.Body, t.opts.ChunkSize)
	t.logger.Info(ctx, "Splitting into %d chunks of up to %d bytes", len(chunks), t.opts.ChunkSize)
	startTime := time.Now()

	resultsCh := make(chan ChunkResult, len(chunks))

	var g errgroup.Group
	g.SetLimit(t.opts.Concurrency)
	for _, c := range chunks {
		g.Go(func() error {
			resultsCh <- t.processChunk(ctx, c, len(chunks), contentType)
			return nil
		})
	}
	_ = g.Wait()
	close(resultsCh)

	results := make([]ChunkResult, 0, len(chunks))
	dropped := 0
	for r := range resultsCh {
		if r.Dropped {
			dropped++
		}
		results = append(results, r)
	}

	if len(chunks) > 0 && dropped == len(chunks) {
		return Result{}, fmt.Errorf("transcription unavailable: all %d chunks failed", len(chunks))
	}

	segments := Stitch(results)

	t.logger.Info(ctx, "Transcription completed in %s (%d segments, %d chunks dropped)",
		time.Since(startTime).Round(time.Millisecond), len(segments), dropped)

	return Result{
		Transcript: FormatTranscript(segments),
		Subtitle:   RenderVTT(segments),
		Segments:   segments,
	}, nil
}

// processChunk calls the speech-to-text service with per-chunk retries. A
// chunk that keeps failing degrades to an empty result instead of failing the job.
func (t *implTranscriber) processChunk(ctx context.Context, c chunk, total int, contentType string) ChunkResult {
	t.logger.Debug(ctx, "Processing chunk %d/%d...", c.index+1, total)

	for attempt := 1; attempt <= t.opts.MaxChunkRetries; attempt++ {
		raw, err := t.stt.Transcribe(ctx, c.data, contentType, t.opts.Language)
		if err == nil {
			segments, duration, found := parseChunkResponse(raw)
			if !found {
				t.logger.Warn(ctx, "Chunk %d: no text found", c.index+1)
			}
			return ChunkResult{Index: c.index, Segments: segments, Duration: duration}
		}

		chunkErr := &ChunkError{Index: c.index, Attempt: attempt, Err: err}
		t.logger.Error(ctx, "Error processing %v (max %d attempts)", chunkErr, t.opts.MaxChunkRetries)

		if attempt < t.opts.MaxChunkRetries {
			metrics.ChunkRetriesTotal.Inc()
			t.logger.Info(ctx, "Retrying chunk %d in %s", c.index+1, t.opts.RetryDelay)
			if err := t.sleep(ctx, t.opts.RetryDelay); err != nil {
				break
			}
		}
	}

	metrics.ChunksDroppedTotal.Inc()
	t.logger.Error(ctx, "Failed to process chunk %d after %d attempts, skipping", c.index+1, t.opts.MaxChunkRetries)
	return ChunkResult{Index: c.index, Duration: fallbackChunkDuration, Dropped: true}
}

// splitChunks cuts data into size-byte slices, the last one possibly shorter.
func splitChunks(data []byte, size int) []chunk {
	chunks := make([]chunk, 0, (len(data)+size-1)/size)
	for i := 0; i < len(data); i += size {
		end := min(i+size, len(data))
		chunks = append(chunks, chunk{index: len(chunks), data: data[i:end]})
	}
	return chunks
}

// sortResults orders results by chunk index.
func sortResults(results []ChunkResult) []ChunkResult {
	sorted := append([]ChunkResult(nil), results...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Index < sorted[j].Index })
	return sorted
}
