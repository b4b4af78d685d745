// Package mock provides deterministic test doubles for the ai client
// interfaces. Model calls are external, non-deterministic inputs; tests
// supply canned responses instead of calling a live model.
package mock

import (
	"context"

	"github.com/okralabs/graphive/pkg/ai"
)

// ChatClient is a test double for ai.ChatClient. Behavior is injected via
// function fields; unset fields return empty results.
type ChatClient struct {
	// GenerateCompletionFunc is called by GenerateCompletion if set.
	GenerateCompletionFunc func(ctx context.Context, prompt string, opts ...ai.GenerateOption) (string, error)

	// GenerateCompletionWithFormatFunc is called by
	// GenerateCompletionWithFormat if set. It must fill out.
	GenerateCompletionWithFormatFunc func(ctx context.Context, name string, description string, prompt string, out any, opts ...ai.GenerateOption) error

	callCount int
}

// NewChatClient creates a mock chat client.
func NewChatClient() *ChatClient {
	return &ChatClient{}
}

// GenerateCompletion returns the injected completion, or an empty string.
func (m *ChatClient) GenerateCompletion(
	ctx context.Context,
	prompt string,
	opts ...ai.GenerateOption,
) (string, error) {
	m.callCount++
	if m.GenerateCompletionFunc != nil {
		return m.GenerateCompletionFunc(ctx, prompt, opts...)
	}
	return "", nil
}

// GenerateCompletionWithFormat delegates to the injected function, or leaves
// out untouched.
func (m *ChatClient) GenerateCompletionWithFormat(
	ctx context.Context,
	name string,
	description string,
	prompt string,
	out any,
	opts ...ai.GenerateOption,
) error {
	m.callCount++
	if m.GenerateCompletionWithFormatFunc != nil {
		return m.GenerateCompletionWithFormatFunc(ctx, name, description, prompt, out, opts...)
	}
	return nil
}

// CallCount returns the number of chat calls made.
func (m *ChatClient) CallCount() int {
	return m.callCount
}
