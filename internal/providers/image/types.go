package image

import (
	"context"

	"banksy/internal/reference"
)

// GenerateRequest describes a normalized request passed to the image provider.
// Prompt is the final prompt string, style and reference lines included.
type GenerateRequest struct {
	Prompt    string
	RequestID string
	Reference *reference.Reference
}

// Asset is a generated image. Base64 holds the provider payload untouched.
type Asset struct {
	Base64        string
	Format        string
	RevisedPrompt string
}

// Generator is the contract implemented by image providers.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (*Asset, error)
	HasCredentials() bool
	Model() string
	Size() string
}
