package gemini

import (
	"context"
	"encoding/json"
	"strings"

	"google.golang.org/genai"

	"github.com/nguyentantai21042004/minutes-worker/internal/summarizer"
)

// Generator adapts a Client to summarizer.Generator.
type Generator struct {
	client *Client
}

// NewGenerator creates a text Generator on client.
func NewGenerator(client *Client) *Generator {
	return &Generator{client: client}
}

// Generate sends the chat turns and classifies the response body with
// summarizer.DecodeResponse. A response without text comes back as
// Unrecognized so the caller can regenerate.
func (g *Generator) Generate(ctx context.Context, messages []summarizer.Message) (summarizer.Response, error) {
	system, contents := toContents(messages)

	cfg := &genai.GenerateContentConfig{}
	if system != "" {
		cfg.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	resp, err := g.client.call(ctx, contents, cfg)
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(resp)
	if err != nil {
		g.client.logger.Warn(ctx, "Encode response body: %v", err)
		if parts := candidateParts(resp); len(parts) > 0 {
			return summarizer.StructuredOutput{Parts: parts}, nil
		}
		return summarizer.Unrecognized{}, nil
	}
	return summarizer.DecodeResponse(raw), nil
}

// toContents folds system turns into one instruction and maps the rest to
// user / model contents.
func toContents(messages []summarizer.Message) (string, []*genai.Content) {
	var (
		system   []string
		contents []*genai.Content
	)
	for _, m := range messages {
		switch m.Role {
		case summarizer.RoleSystem:
			system = append(system, m.Content)
		case summarizer.RoleAssistant:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}
	return strings.Join(system, "\n\n"), contents
}
