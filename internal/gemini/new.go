package gemini

import (
	"context"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/nguyentantai21042004/minutes-worker/internal/logger"
)

// Options configures a Client.
type Options struct {
	APIKeys           []string
	Model             string
	RequestsPerSecond float64 // <= 0 disables the limiter
	Timeout           time.Duration
}

// generateFunc performs one GenerateContent call with a given API key.
type generateFunc func(ctx context.Context, key, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)

// Client calls the Gemini API, rotating API keys on rate limit errors.
type Client struct {
	keys     *keyRing
	model    string
	timeout  time.Duration
	limiter  *rate.Limiter
	logger   logger.Logger
	generate generateFunc
}

// New creates a Client. At least one API key is required.
func New(opts Options, log logger.Logger) *Client {
	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}

	c := &Client{
		keys:    newKeyRing(opts.APIKeys),
		model:   opts.Model,
		timeout: opts.Timeout,
		limiter: rate.NewLimiter(limit, 1),
		logger:  log,
	}
	c.generate = c.keys.callGenAI
	return c
}

// WithModel returns a Client sharing keys, connections and the rate limiter but calling model.
func (c *Client) WithModel(model string) *Client {
	if model == "" || model == c.model {
		return c
	}
	clone := *c
	clone.model = model
	return &clone
}

// Model reports the model name used for calls.
func (c *Client) Model() string {
	return c.model
}
