package port

import "context"

// GenerateInput carries one request to the generation service. Image is
// optional; when set it is attached inline alongside the prompt text.
type GenerateInput struct {
	Prompt    string
	Image     []byte
	ImageMIME string
}

// Generator abstracts the text-generation service. Implementations return
// the raw text content of the model's reply; all structure is recovered by
// the caller through text post-processing.
type Generator interface {
	Generate(ctx context.Context, input GenerateInput) (string, error)
}
