package llm

import (
	"context"
)

// ImagePart is an inline image attached to a user message, sent to providers
// as a data URI content block.
type ImagePart struct {
	MimeType string
	Base64   string
}

// DataURI renders the part as data:<mime>;base64,<payload>.
func (p ImagePart) DataURI() string {
	return "data:" + p.MimeType + ";base64," + p.Base64
}

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string // "user", "assistant", "system"
	Content string
	Images  []ImagePart
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	TopP        float64
	Model       string // Override default model/deployment
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithTopP(p float64) Option {
	return func(o *Options) {
		o.TopP = p
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// CompletionProvider defines the contract for any completion backend
type CompletionProvider interface {
	// Chat sends a chat history to the model and returns the response
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// Generate sends a single prompt to the model (convenience method)
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)
}
