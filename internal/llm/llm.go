package llm

import (
	"context"
	"errors"
)

// Generator sends a prompt plus one image to a generative model and returns
// the model's raw text reply.
type Generator interface {
	Generate(ctx context.Context, prompt string, image ImageInput) (string, error)
}

// ImageInput is the inline image attached to a generation request.
type ImageInput struct {
	MIMEType string
	Data     []byte
}

var (
	// ErrMissingAPIKey is returned when no provider credential is configured.
	ErrMissingAPIKey = errors.New("AI_API_KEY not configured")
	// ErrEmptyResponse is returned when the model replied without any text.
	ErrEmptyResponse = errors.New("empty response from model")
)

// UnconfiguredGenerator stands in when AI_API_KEY is absent so the server can
// still boot; every call fails with ErrMissingAPIKey.
type UnconfiguredGenerator struct{}

// Generate returns ErrMissingAPIKey.
func (UnconfiguredGenerator) Generate(ctx context.Context, prompt string, image ImageInput) (string, error) {
	_ = ctx
	_ = prompt
	_ = image
	return "", ErrMissingAPIKey
}
