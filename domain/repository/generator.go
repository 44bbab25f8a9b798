package repository

import "context"

// IGenerator wraps the text-generation backend: given a prompt it returns a
// block of raw text for segmentation.
type IGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// IGenerationCache caches raw generation output keyed by prompt so repeated
// prompts skip the backend call. Implementations may be no-ops.
type IGenerationCache interface {
	Get(ctx context.Context, prompt string) (string, bool)
	Set(ctx context.Context, prompt string, text string)
}
