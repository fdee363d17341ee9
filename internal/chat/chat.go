// Package chat orchestrates one conversational turn: load or create the
// conversation, build the model context from history, augment the current
// query with retrieved knowledge, call a provider, and persist both sides.
package chat

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Vishwa-247/smart-ai-conversations-hub/internal/llm"
	"github.com/Vishwa-247/smart-ai-conversations-hub/internal/store"
)

// DefaultSystemPrompt is used when a conversation carries no custom prompt.
const DefaultSystemPrompt = "You are a helpful AI assistant that provides informative, engaging responses. Be concise but thorough, and maintain a friendly conversational tone."

const defaultTitleLen = 50

// ConversationStore is the persistence surface the orchestrator needs.
type ConversationStore interface {
	CreateConversation(ctx context.Context, title, model, systemPrompt string) (*store.Conversation, error)
	GetConversation(ctx context.Context, id string) (*store.Conversation, error)
	AppendMessage(ctx context.Context, conversationID, role, content string) (*store.Message, error)
	History(ctx context.Context, conversationID string, limit int) ([]*store.Message, error)
}

// Augmenter rewrites the current query with document and web context. It
// must return the query unchanged when nothing applies.
type Augmenter interface {
	Compose(ctx context.Context, query, conversationID string) string
}

// ModelResolver picks a provider for a model name, along with the model the
// provider should actually be asked for (empty means its default).
type ModelResolver interface {
	Resolve(model string) (llm.Provider, string)
}

// Request is one user turn. SystemPrompt optionally overrides the prompt
// for this turn; it also seeds a newly created conversation.
type Request struct {
	ConversationID string `json:"conversation_id"`
	Message        string `json:"message"`
	Model          string `json:"model"`
	SystemPrompt   string `json:"system_prompt"`
}

// Reply is the outcome of a turn.
type Reply struct {
	ConversationID string `json:"conversation_id"`
	Response       string `json:"response"`
	Model          string `json:"model"`
	Provider       string `json:"provider"`
}

type Orchestrator struct {
	store        ConversationStore
	augmenter    Augmenter
	resolver     ModelResolver
	stats        *llm.Stats
	defaultModel string
	historyLimit int
	log          *slog.Logger
}

func NewOrchestrator(st ConversationStore, augmenter Augmenter, resolver ModelResolver, stats *llm.Stats, defaultModel string, historyLimit int, log *slog.Logger) *Orchestrator {
	if historyLimit <= 0 {
		historyLimit = 15
	}
	return &Orchestrator{
		store:        st,
		augmenter:    augmenter,
		resolver:     resolver,
		stats:        stats,
		defaultModel: defaultModel,
		historyLimit: historyLimit,
		log:          log,
	}
}

// Send runs one turn. The raw user message is persisted; only the copy sent
// to the model carries retrieval and search augmentation.
func (o *Orchestrator) Send(ctx context.Context, req Request) (*Reply, error) {
	if req.Message == "" {
		return nil, fmt.Errorf("empty message")
	}

	conv, err := o.loadOrCreate(ctx, req)
	if err != nil {
		return nil, err
	}

	model := req.Model
	if model == "" {
		model = conv.Model
	}
	if model == "" {
		model = o.defaultModel
	}

	history, err := o.store.History(ctx, conv.ID, o.historyLimit)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	augmented := o.augmenter.Compose(ctx, req.Message, conv.ID)

	messages := o.buildMessages(conv, req.SystemPrompt, history, augmented)
	provider, effectiveModel := o.resolver.Resolve(model)

	response, err := o.complete(ctx, provider, effectiveModel, messages)
	if err != nil {
		return nil, fmt.Errorf("model completion: %w", err)
	}

	if _, err := o.store.AppendMessage(ctx, conv.ID, string(llm.RoleUser), req.Message); err != nil {
		return nil, fmt.Errorf("persist user message: %w", err)
	}
	if _, err := o.store.AppendMessage(ctx, conv.ID, string(llm.RoleAssistant), response); err != nil {
		return nil, fmt.Errorf("persist assistant message: %w", err)
	}

	o.log.Info("turn complete",
		"conversation_id", conv.ID,
		"model", model,
		"provider", provider.Name(),
		"augmented", augmented != req.Message)

	return &Reply{
		ConversationID: conv.ID,
		Response:       response,
		Model:          model,
		Provider:       provider.Name(),
	}, nil
}

func (o *Orchestrator) loadOrCreate(ctx context.Context, req Request) (*store.Conversation, error) {
	if req.ConversationID != "" {
		conv, err := o.store.GetConversation(ctx, req.ConversationID)
		if err != nil {
			return nil, fmt.Errorf("load conversation: %w", err)
		}
		return conv, nil
	}

	model := req.Model
	if model == "" {
		model = o.defaultModel
	}
	conv, err := o.store.CreateConversation(ctx, titleFrom(req.Message), model, req.SystemPrompt)
	if err != nil {
		return nil, fmt.Errorf("create conversation: %w", err)
	}
	return conv, nil
}

// buildMessages assembles the provider payload: system prompt, the history
// window as stored, then the augmented current turn.
func (o *Orchestrator) buildMessages(conv *store.Conversation, override string, history []*store.Message, current string) []llm.Message {
	prompt := override
	if prompt == "" {
		prompt = conv.SystemPrompt
	}
	if prompt == "" {
		prompt = DefaultSystemPrompt
	}

	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: prompt})
	for _, m := range history {
		messages = append(messages, llm.Message{Role: llm.Role(m.Role), Content: m.Content})
	}
	return append(messages, llm.Message{Role: llm.RoleUser, Content: current})
}

func (o *Orchestrator) complete(ctx context.Context, provider llm.Provider, model string, messages []llm.Message) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= llm.MaxRetries; attempt++ {
		if attempt > 0 {
			wait := llm.Backoff(attempt - 1)
			o.log.Warn("retrying completion", "provider", provider.Name(), "attempt", attempt, "wait", wait)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(wait):
			}
		}

		start := time.Now()
		response, err := provider.Complete(ctx, model, messages)
		o.stats.Record(provider.Name(), time.Since(start))
		if err == nil {
			return response, nil
		}
		lastErr = err
		if !llm.IsRetryable(err) {
			return "", err
		}
	}
	return "", lastErr
}

// titleFrom derives a conversation title from the first message.
func titleFrom(message string) string {
	if len(message) <= defaultTitleLen {
		return message
	}
	return message[:defaultTitleLen] + "..."
}
