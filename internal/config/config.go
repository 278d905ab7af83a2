package config

import (
	"fmt"
	"path/filepath"
	"time"
)

type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Queue         QueueConfig         `yaml:"queue"`
	MySQL         MySQLConfig         `yaml:"mysql"`
	Redis         RedisConfig         `yaml:"redis"`
	Storage       StorageConfig       `yaml:"storage"`
	Gemini        GeminiConfig        `yaml:"gemini"`
	Transcription TranscriptionConfig `yaml:"transcription"`
	Summarization SummarizationConfig `yaml:"summarization"`
	Ingest        IngestConfig        `yaml:"ingest"`
	Export        ExportConfig        `yaml:"export"`
	Logging       LoggingConfig       `yaml:"logging"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type QueueConfig struct {
	Name         string        `yaml:"name"`
	StateBackend string        `yaml:"state_backend"` // file | redis
	StatePath    string        `yaml:"state_path"`
	BatchDelay   time.Duration `yaml:"batch_delay"`
	RetryDelay   time.Duration `yaml:"retry_delay"`
	NextDelay    time.Duration `yaml:"next_delay"`
	RetryLimit   int           `yaml:"retry_limit"`
}

type MySQLConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type StorageConfig struct {
	Root string `yaml:"root"`
}

type GeminiConfig struct {
	APIKeys            []string      `yaml:"api_keys"`
	Model              string        `yaml:"model"`
	TranscriptionModel string        `yaml:"transcription_model"`
	RequestsPerSecond  float64       `yaml:"requests_per_second"`
	Timeout            time.Duration `yaml:"timeout"`
}

type TranscriptionConfig struct {
	Language        string        `yaml:"language"`
	ChunkSize       int           `yaml:"chunk_size"`
	Concurrency     int           `yaml:"concurrency"`
	MaxChunkRetries int           `yaml:"max_chunk_retries"`
	RetryDelay      time.Duration `yaml:"retry_delay"`
}

type SummarizationConfig struct {
	MaxAttempts int `yaml:"max_attempts"`
}

type IngestConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Inbox         string `yaml:"inbox"`
	OwnerID       int64  `yaml:"owner_id"`
	ArchiveDir    string `yaml:"archive_dir"`
	FFmpegPath    string `yaml:"ffmpeg_path"`
	MaxConcurrent int    `yaml:"max_concurrent"`
}

type ExportConfig struct {
	DocxDir string `yaml:"docx_dir"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func (c *Config) Validate() error {
	if c.MySQL.DSN == "" {
		return fmt.Errorf("mysql.dsn is required")
	}
	if len(c.Gemini.APIKeys) == 0 {
		return fmt.Errorf("gemini.api_keys is required")
	}
	if c.Storage.Root == "" {
		return fmt.Errorf("storage.root is required")
	}

	switch c.Queue.StateBackend {
	case "":
		c.Queue.StateBackend = "file"
	case "file", "redis":
	default:
		return fmt.Errorf("queue.state_backend must be file or redis, got %q", c.Queue.StateBackend)
	}
	if c.Queue.StateBackend == "redis" && c.Redis.Addr == "" {
		return fmt.Errorf("redis.addr is required for the redis state backend")
	}

	if c.Ingest.Enabled {
		if c.Ingest.Inbox == "" {
			return fmt.Errorf("ingest.inbox is required when ingest is enabled")
		}
		if c.Ingest.OwnerID == 0 {
			return fmt.Errorf("ingest.owner_id is required when ingest is enabled")
		}
	}

	if c.Server.Addr == "" {
		c.Server.Addr = ":8787"
	}
	if c.Queue.Name == "" {
		c.Queue.Name = "default-queue"
	}
	if c.Queue.StatePath == "" {
		c.Queue.StatePath = "data/queue/" + c.Queue.Name + ".json"
	}
	if c.Queue.BatchDelay == 0 {
		c.Queue.BatchDelay = 100 * time.Millisecond
	}
	if c.Queue.RetryDelay == 0 {
		c.Queue.RetryDelay = time.Second
	}
	if c.Queue.NextDelay == 0 {
		c.Queue.NextDelay = 100 * time.Millisecond
	}
	if c.Queue.RetryLimit == 0 {
		c.Queue.RetryLimit = 3
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.5-flash"
	}
	if c.Gemini.TranscriptionModel == "" {
		c.Gemini.TranscriptionModel = c.Gemini.Model
	}
	if c.Gemini.Timeout == 0 {
		c.Gemini.Timeout = 2 * time.Minute
	}
	if c.Transcription.Language == "" {
		c.Transcription.Language = "ja"
	}
	if c.Transcription.ChunkSize == 0 {
		c.Transcription.ChunkSize = 1 << 20
	}
	if c.Transcription.Concurrency == 0 {
		c.Transcription.Concurrency = 5
	}
	if c.Transcription.MaxChunkRetries == 0 {
		c.Transcription.MaxChunkRetries = 3
	}
	if c.Transcription.RetryDelay == 0 {
		c.Transcription.RetryDelay = 3 * time.Second
	}
	if c.Summarization.MaxAttempts == 0 {
		c.Summarization.MaxAttempts = 2
	}
	if c.Ingest.Enabled && c.Ingest.ArchiveDir == "" {
		c.Ingest.ArchiveDir = filepath.Join(c.Ingest.Inbox, "archived")
	}
	if c.Ingest.FFmpegPath == "" {
		c.Ingest.FFmpegPath = "ffmpeg"
	}
	if c.Ingest.MaxConcurrent == 0 {
		c.Ingest.MaxConcurrent = 2
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}

	return nil
}
