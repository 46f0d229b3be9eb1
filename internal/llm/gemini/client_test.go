package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/google/generative-ai-go/genai"

	"plant-relay/internal/llm"
)

func TestNewClientRequiresAPIKey(t *testing.T) {
	_, err := NewClient(context.Background(), "   ", "")
	if !errors.Is(err, llm.ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestFirstTextSkipsNonTextParts(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: nil},
			{Content: &genai.Content{Parts: []genai.Part{
				genai.Blob{MIMEType: "image/png", Data: []byte{1}},
				genai.Text(`{"code":"success"}`),
			}}},
		},
	}
	if got := firstText(resp); got != `{"code":"success"}` {
		t.Fatalf("unexpected text %q", got)
	}
}

func TestFirstTextEmpty(t *testing.T) {
	if got := firstText(nil); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
	if got := firstText(&genai.GenerateContentResponse{}); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}
