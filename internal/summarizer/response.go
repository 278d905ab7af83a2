package summarizer

import (
	"encoding/json"
	"strings"
)

// Response is one of the known text-generation response shapes.
type Response interface {
	// Text returns the assistant text carried by the variant.
	Text() string
}

// StructuredOutput is a candidate made of ordered content parts.
type StructuredOutput struct {
	Parts []string
}

func (r StructuredOutput) Text() string {
	return strings.Join(r.Parts, "")
}

// FlatText is a bare string result field.
type FlatText struct {
	Result string
}

func (r FlatText) Text() string {
	return r.Result
}

// LegacyResponse is the older {"response": "..."} shape.
type LegacyResponse struct {
	Response string
}

func (r LegacyResponse) Text() string {
	return r.Response
}

// OutputItem is one entry of an "output" array.
type OutputItem struct {
	Type    string          `json:"type"`
	Role    string          `json:"role"`
	Content json.RawMessage `json:"content"`
}

// OutputMessages is an "output" array holding an assistant message.
type OutputMessages struct {
	Output []OutputItem
}

func (r OutputMessages) Text() string {
	for _, item := range r.Output {
		if item.Role != "assistant" {
			continue
		}
		if text := contentText(item.Content); text != "" {
			return text
		}
	}
	return ""
}

// Unrecognized keeps a body none of the matchers understood.
type Unrecognized struct {
	Raw json.RawMessage
}

func (r Unrecognized) Text() string {
	return ""
}

// ExtractText returns the assistant text of resp, or "" when there is none.
func ExtractText(resp Response) string {
	if resp == nil {
		return ""
	}
	return strings.TrimSpace(resp.Text())
}

// responseMatcher recognizes one response shape in a decoded JSON object.
type responseMatcher func(obj map[string]json.RawMessage) (Response, bool)

// matchers are tried in order; a new provider shape is one more entry here.
var matchers = []responseMatcher{
	matchStructured,
	matchFlatText,
	matchLegacy,
	matchOutputMessages,
}

// DecodeResponse classifies a raw JSON response body.
func DecodeResponse(raw []byte) Response {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return Unrecognized{Raw: raw}
	}
	for _, match := range matchers {
		if resp, ok := match(obj); ok {
			return resp
		}
	}
	return Unrecognized{Raw: raw}
}

// matchStructured reads {"candidates":[{"content":{"parts":[{"text":...}]}}]}.
func matchStructured(obj map[string]json.RawMessage) (Response, bool) {
	raw, ok := obj["candidates"]
	if !ok {
		return nil, false
	}
	var candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	}
	if err := json.Unmarshal(raw, &candidates); err != nil || len(candidates) == 0 {
		return nil, false
	}
	var parts []string
	for _, p := range candidates[0].Content.Parts {
		if p.Text != "" {
			parts = append(parts, p.Text)
		}
	}
	if len(parts) == 0 {
		return nil, false
	}
	return StructuredOutput{Parts: parts}, true
}

// matchFlatText reads {"result": "..."}.
func matchFlatText(obj map[string]json.RawMessage) (Response, bool) {
	s, ok := stringField(obj, "result")
	if !ok {
		return nil, false
	}
	return FlatText{Result: s}, true
}

// matchLegacy reads {"response": "..."}.
func matchLegacy(obj map[string]json.RawMessage) (Response, bool) {
	s, ok := stringField(obj, "response")
	if !ok {
		return nil, false
	}
	return LegacyResponse{Response: s}, true
}

// matchOutputMessages reads {"output":[{"role":"assistant","content":...}]}.
func matchOutputMessages(obj map[string]json.RawMessage) (Response, bool) {
	raw, ok := obj["output"]
	if !ok {
		return nil, false
	}
	var items []OutputItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}
	resp := OutputMessages{Output: items}
	if resp.Text() == "" {
		return nil, false
	}
	return resp, true
}

func stringField(obj map[string]json.RawMessage, key string) (string, bool) {
	raw, ok := obj[key]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil || strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}

// contentText accepts either a plain string or a list of {"text": ...} parts.
func contentText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var parts []struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw, &parts); err != nil {
		return ""
	}
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(p.Text)
	}
	return b.String()
}
