package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/nguyentantai21042004/minutes-worker/internal/config"
	"github.com/nguyentantai21042004/minutes-worker/internal/export"
	"github.com/nguyentantai21042004/minutes-worker/internal/gemini"
	"github.com/nguyentantai21042004/minutes-worker/internal/ingest"
	"github.com/nguyentantai21042004/minutes-worker/internal/logger"
	"github.com/nguyentantai21042004/minutes-worker/internal/metastore"
	"github.com/nguyentantai21042004/minutes-worker/internal/objectstore"
	"github.com/nguyentantai21042004/minutes-worker/internal/processor"
	"github.com/nguyentantai21042004/minutes-worker/internal/queue"
	"github.com/nguyentantai21042004/minutes-worker/internal/statestore"
	"github.com/nguyentantai21042004/minutes-worker/internal/summarizer"
	"github.com/nguyentantai21042004/minutes-worker/internal/transcriber"
	"github.com/nguyentantai21042004/minutes-worker/internal/watcher"
	"github.com/nguyentantai21042004/minutes-worker/pkg/executor"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	log.Info(ctx, "========================================")
	log.Info(ctx, "Minutes Worker")
	log.Info(ctx, "========================================")
	log.Info(ctx, "System: %s/%s", runtime.GOOS, runtime.GOARCH)
	log.Info(ctx, "Queue: %s (state backend: %s)", cfg.Queue.Name, cfg.Queue.StateBackend)
	log.Info(ctx, "Model: %s (transcription: %s)", cfg.Gemini.Model, cfg.Gemini.TranscriptionModel)

	if err := ensureDirectories(cfg); err != nil {
		log.Error(ctx, "Failed to create directories: %v", err)
		os.Exit(1)
	}

	if err := run(ctx, cfg, log); err != nil {
		log.Error(ctx, "Worker stopped with error: %v", err)
		os.Exit(1)
	}
	log.Info(ctx, "Minutes Worker stopped")
}

func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Metadata
	db, err := sql.Open("mysql", cfg.MySQL.DSN)
	if err != nil {
		return fmt.Errorf("open mysql: %w", err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping mysql: %w", err)
	}
	meta := metastore.New(db)
	if err := meta.Migrate(ctx); err != nil {
		return err
	}

	// Queue state
	var store statestore.StateStore
	switch cfg.Queue.StateBackend {
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("ping redis: %w", err)
		}
		store = statestore.NewRedisStore(rdb, cfg.Queue.Name)
	default:
		store = statestore.NewFileStore(cfg.Queue.StatePath)
	}

	objects := objectstore.NewFSStore(cfg.Storage.Root)

	// Model services
	client := gemini.New(gemini.Options{
		APIKeys:           cfg.Gemini.APIKeys,
		Model:             cfg.Gemini.Model,
		RequestsPerSecond: cfg.Gemini.RequestsPerSecond,
		Timeout:           cfg.Gemini.Timeout,
	}, log)
	generator := gemini.NewGenerator(client)
	stt := gemini.NewSpeechToText(client.WithModel(cfg.Gemini.TranscriptionModel))

	deps := processor.Deps{
		Metadata: meta,
		Objects:  objects,
		Transcriber: transcriber.New(stt, transcriber.Options{
			Language:        cfg.Transcription.Language,
			ChunkSize:       cfg.Transcription.ChunkSize,
			Concurrency:     cfg.Transcription.Concurrency,
			MaxChunkRetries: cfg.Transcription.MaxChunkRetries,
			RetryDelay:      cfg.Transcription.RetryDelay,
		}, log),
		Summarizer: summarizer.New(generator, generator, cfg.Summarization.MaxAttempts, log),
		Classifier: summarizer.NewClassifier(generator, log),
	}
	if cfg.Export.DocxDir != "" {
		deps.Exporter = export.NewDocx(cfg.Export.DocxDir, log)
	}
	proc := processor.New(deps, log)

	actor := queue.New(store, proc, meta, queue.Options{
		Name:       cfg.Queue.Name,
		BatchDelay: cfg.Queue.BatchDelay,
		RetryDelay: cfg.Queue.RetryDelay,
		NextDelay:  cfg.Queue.NextDelay,
		RetryLimit: cfg.Queue.RetryLimit,
	}, log)
	if err := actor.Start(ctx); err != nil {
		return err
	}
	defer actor.Stop()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", queue.NewHandler(actor, log))
	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 2)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("http server: %w", err)
		}
	}()

	if cfg.Ingest.Enabled {
		in := ingest.New(ingest.Options{
			OwnerID:    cfg.Ingest.OwnerID,
			FFmpegPath: cfg.Ingest.FFmpegPath,
			ArchiveDir: cfg.Ingest.ArchiveDir,
		}, objects, meta, actor, executor.New(), log)

		w, err := watcher.New(watcher.Options{
			Dir:           cfg.Ingest.Inbox,
			MaxConcurrent: cfg.Ingest.MaxConcurrent,
		}, in.Ingest, log)
		if err != nil {
			return err
		}
		defer w.Stop()

		go func() {
			if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				errChan <- fmt.Errorf("watcher: %w", err)
			}
		}()
		log.Info(ctx, "Monitoring inbox: %s", cfg.Ingest.Inbox)
	}

	log.Info(ctx, "Queue API listening on %s", cfg.Server.Addr)
	log.Info(ctx, "Press Ctrl+C to stop")
	log.Info(ctx, "========================================")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case <-sigChan:
		log.Info(ctx, "Shutdown signal received")
	case runErr = <-errChan:
	}

	log.Info(ctx, "Shutting down gracefully...")
	cancel()

	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn(ctx, "HTTP shutdown: %v", err)
	}

	return runErr
}

// ensureDirectories creates the local directories the worker writes to.
func ensureDirectories(cfg *config.Config) error {
	dirs := []string{cfg.Storage.Root}
	if cfg.Queue.StateBackend == "file" {
		dirs = append(dirs, filepath.Dir(cfg.Queue.StatePath))
	}
	if cfg.Export.DocxDir != "" {
		dirs = append(dirs, cfg.Export.DocxDir)
	}
	if cfg.Ingest.Enabled {
		dirs = append(dirs, cfg.Ingest.Inbox, cfg.Ingest.ArchiveDir)
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}
