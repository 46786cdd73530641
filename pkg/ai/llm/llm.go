package llm

import (
	"context"
)

// LLM es un modelo de chat genérico
type LLM interface {
	// Chat generates a response based on the conversation history
	Chat(ctx context.Context, messages []Message, opts ...Option) (Response, error)
}

// Response contains the model's response and token usage
type Response struct {
	Message Message
	Usage   Usage
}

// ChatFunc adapta una función al interface LLM
type ChatFunc func(ctx context.Context, messages []Message, opts ...Option) (Response, error)

func (f ChatFunc) Chat(ctx context.Context, messages []Message, opts ...Option) (Response, error) {
	return f(ctx, messages, opts...)
}
