package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"plant-relay/internal/llm"
)

// DefaultModel is used when no model name is configured.
const DefaultModel = "gemini-2.0-flash"

// Client implements llm.Generator on top of the Gemini API. It is created once
// per process and is safe for concurrent use.
type Client struct {
	client *genai.Client
	model  *genai.GenerativeModel
	name   string
}

// NewClient constructs a Gemini client for the given credential and model.
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, llm.ErrMissingAPIKey
	}
	model = strings.TrimSpace(model)
	if model == "" {
		model = DefaultModel
	}
	cl, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	m := cl.GenerativeModel(model)
	m.GenerationConfig = genai.GenerationConfig{
		Temperature:      ptrFloat32(0),
		ResponseMIMEType: "application/json",
	}
	return &Client{client: cl, model: m, name: model}, nil
}

// Model returns the configured model name.
func (c *Client) Model() string { return c.name }

// Generate sends the prompt and image in a single attempt.
func (c *Client) Generate(ctx context.Context, prompt string, image llm.ImageInput) (string, error) {
	resp, err := c.model.GenerateContent(ctx,
		genai.Text(prompt),
		genai.Blob{MIMEType: image.MIMEType, Data: image.Data},
	)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	txt := firstText(resp)
	if strings.TrimSpace(txt) == "" {
		return "", llm.ErrEmptyResponse
	}
	return txt, nil
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	return c.client.Close()
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, p := range cand.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				return string(t)
			}
		}
	}
	return ""
}

func ptrFloat32(v float32) *float32 { return &v }
