// Package ai abstracts text generation over OpenAI-compatible chat APIs.
// Groq and OpenAI both speak this wire format, so one adapter covers every
// provider the platform supports.
package ai

import "context"

// Request carries one generation call.
type Request struct {
	SystemPrompt string
	UserPrompt   string
	MaxTokens    int
	Temperature  float64
}

// Result is the generated text plus token accounting for usage logs.
type Result struct {
	Text             string
	PromptTokens     int
	CompletionTokens int
}

// TextGenerator generates text from a system and user prompt. Implementations
// must honor ctx cancellation.
type TextGenerator interface {
	GenerateText(ctx context.Context, req Request) (*Result, error)
}
