package domain

import "context"

type InferRequest struct {
	// ImagePath points to an already preprocessed RGB image on disk.
	ImagePath string
	// Prompt is the fully rendered conversation, with ImageToken marking where the image embedding goes.
	Prompt string
	// StopCondition is checked against everything generated so far; nil means "run until the token limit".
	StopCondition StopCondition
	Temperature   float64
	MaxNewTokens  int
}

// VisionModel a multimodal model which answers a prompt about an image.
type VisionModel interface {
	// Name the name of the model. Useful for debugging.
	Name() string
	// Infer returns the raw generated text (without the prompt). It may run past the stop condition by a few
	// characters; callers are expected to trim.
	Infer(ctx context.Context, request InferRequest) (string, error)
}
