// Package llm holds the chat-completion provider clients. Each provider
// speaks its own wire format but presents the same Provider interface, so
// the orchestrator can route a conversation to any configured backend.
package llm

import (
	"context"
	"fmt"
)

// Role identifies the author of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of a conversation as sent to a provider.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Provider produces a completion for a conversation. An empty model selects
// the provider's configured default.
type Provider interface {
	Complete(ctx context.Context, model string, messages []Message) (string, error)
	Name() string
}

// RetryableError indicates a transient provider failure that can be retried.
type RetryableError struct {
	StatusCode int
	Message    string
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable error (status %d): %s", e.StatusCode, truncate(e.Message, 200))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
