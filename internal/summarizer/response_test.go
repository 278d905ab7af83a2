package summarizer

import (
	"testing"
)

func TestDecodeResponse(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantType string
		wantText string
	}{
		{
			name:     "structured output",
			raw:      `{"candidates":[{"content":{"parts":[{"text":"## 概要\n"},{"text":"本文"}]}}]}`,
			wantType: "StructuredOutput",
			wantText: "## 概要\n本文",
		},
		{
			name:     "flat text",
			raw:      `{"result":"  minutes  "}`,
			wantType: "FlatText",
			wantText: "minutes",
		},
		{
			name:     "legacy",
			raw:      `{"response":"old shape"}`,
			wantType: "LegacyResponse",
			wantText: "old shape",
		},
		{
			name:     "output messages with string content",
			raw:      `{"output":[{"type":"reasoning","role":"system","content":"x"},{"type":"message","role":"assistant","content":"answer"}]}`,
			wantType: "OutputMessages",
			wantText: "answer",
		},
		{
			name:     "output messages with parts",
			raw:      `{"output":[{"type":"message","role":"assistant","content":[{"text":"a"},{"text":"b"}]}]}`,
			wantType: "OutputMessages",
			wantText: "ab",
		},
		{
			name:     "empty candidates fall through",
			raw:      `{"candidates":[],"result":"fallback"}`,
			wantType: "FlatText",
			wantText: "fallback",
		},
		{
			name:     "unknown shape",
			raw:      `{"id":"abc"}`,
			wantType: "Unrecognized",
		},
		{
			name:     "not json",
			raw:      `plain`,
			wantType: "Unrecognized",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := DecodeResponse([]byte(tt.raw))
			var gotType string
			switch resp.(type) {
			case StructuredOutput:
				gotType = "StructuredOutput"
			case FlatText:
				gotType = "FlatText"
			case LegacyResponse:
				gotType = "LegacyResponse"
			case OutputMessages:
				gotType = "OutputMessages"
			case Unrecognized:
				gotType = "Unrecognized"
			}
			if gotType != tt.wantType {
				t.Errorf("DecodeResponse() type = %s, want %s", gotType, tt.wantType)
			}
			if got := ExtractText(resp); got != tt.wantText {
				t.Errorf("ExtractText() = %q, want %q", got, tt.wantText)
			}
		})
	}
}

func TestExtractTextNil(t *testing.T) {
	if got := ExtractText(nil); got != "" {
		t.Errorf("ExtractText(nil) = %q, want empty", got)
	}
}
