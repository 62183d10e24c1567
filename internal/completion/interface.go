// Package completion is the "ask a model a question" capability the invoker
// depends on, plus the concrete backends that provide it.
package completion

import "context"

// Request is a single chat completion call
type Request struct {
	SystemPrompt string
	UserPrompt   string
	Model        string
	MaxTokens    int
	Temperature  float64
}

// Completer returns the text a model produces for a request
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Func adapts a function to Completer
type Func func(ctx context.Context, req Request) (string, error)

// Complete calls f(ctx, req)
func (f Func) Complete(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}
