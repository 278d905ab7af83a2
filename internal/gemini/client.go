package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/genai"
)

// ErrKeysExhausted is returned when every API key was rate limited.
var ErrKeysExhausted = errors.New("all API keys exhausted")

// keyRing holds the API keys, the active index and one genai client per key.
type keyRing struct {
	mu      sync.Mutex
	keys    []string
	current int
	clients map[string]*genai.Client
}

func newKeyRing(keys []string) *keyRing {
	return &keyRing{
		keys:    keys,
		clients: make(map[string]*genai.Client),
	}
}

func (r *keyRing) active() (int, string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current, r.keys[r.current]
}

// rotate advances past index i unless another caller already did.
func (r *keyRing) rotate(i int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == i {
		r.current = (r.current + 1) % len(r.keys)
	}
}

func (r *keyRing) client(ctx context.Context, key string) (*genai.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.clients[key]; ok {
		return c, nil
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	r.clients[key] = c
	return c, nil
}

func (r *keyRing) callGenAI(ctx context.Context, key, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	client, err := r.client(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	return client.Models.GenerateContent(ctx, model, contents, cfg)
}

// isRateLimited matches the 429 / quota errors the API returns.
func isRateLimited(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}

// call sends one request, waiting on the limiter and rotating keys on 429 / quota errors.
func (c *Client) call(ctx context.Context, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	if len(c.keys.keys) == 0 {
		return nil, errors.New("no API keys configured")
	}

	var lastErr error
	for range len(c.keys.keys) {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		idx, key := c.keys.active()
		callCtx := ctx
		cancel := func() {}
		if c.timeout > 0 {
			callCtx, cancel = context.WithTimeout(ctx, c.timeout)
		}
		resp, err := c.generate(callCtx, key, c.model, contents, cfg)
		cancel()
		if err == nil {
			return resp, nil
		}

		if !isRateLimited(err) {
			return nil, fmt.Errorf("generate content: %w", err)
		}
		c.logger.Warn(ctx, "Key %d rate limited, rotating...", idx+1)
		c.keys.rotate(idx)
		lastErr = err
	}

	return nil, fmt.Errorf("%w: %v", ErrKeysExhausted, lastErr)
}

// candidateParts returns the text parts of the first candidate.
func candidateParts(resp *genai.GenerateContentResponse) []string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil
	}
	var parts []string
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			parts = append(parts, part.Text)
		}
	}
	return parts
}
