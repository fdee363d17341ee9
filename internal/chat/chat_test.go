package chat

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vishwa-247/smart-ai-conversations-hub/internal/llm"
	"github.com/Vishwa-247/smart-ai-conversations-hub/internal/store"
)

type fakeStore struct {
	convs    map[string]*store.Conversation
	messages map[string][]*store.Message
	nextID   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		convs:    make(map[string]*store.Conversation),
		messages: make(map[string][]*store.Message),
	}
}

func (f *fakeStore) CreateConversation(ctx context.Context, title, model, systemPrompt string) (*store.Conversation, error) {
	f.nextID++
	conv := &store.Conversation{
		ID:           fmt.Sprintf("conv-%d", f.nextID),
		Title:        title,
		Model:        model,
		SystemPrompt: systemPrompt,
	}
	f.convs[conv.ID] = conv
	return conv, nil
}

func (f *fakeStore) GetConversation(ctx context.Context, id string) (*store.Conversation, error) {
	conv, ok := f.convs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return conv, nil
}

func (f *fakeStore) AppendMessage(ctx context.Context, conversationID, role, content string) (*store.Message, error) {
	if _, ok := f.convs[conversationID]; !ok {
		return nil, store.ErrNotFound
	}
	m := &store.Message{
		ID:             int64(len(f.messages[conversationID]) + 1),
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
	}
	f.messages[conversationID] = append(f.messages[conversationID], m)
	return m, nil
}

func (f *fakeStore) History(ctx context.Context, conversationID string, limit int) ([]*store.Message, error) {
	msgs := f.messages[conversationID]
	if len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	return msgs, nil
}

type fakeAugmenter struct {
	suffix string
}

func (f *fakeAugmenter) Compose(ctx context.Context, query, conversationID string) string {
	return query + f.suffix
}

type scriptedProvider struct {
	name     string
	reply    string
	errs     []error
	calls    int
	received [][]llm.Message
}

func (p *scriptedProvider) Complete(ctx context.Context, model string, messages []llm.Message) (string, error) {
	p.calls++
	p.received = append(p.received, messages)
	if len(p.errs) > 0 {
		err := p.errs[0]
		p.errs = p.errs[1:]
		if err != nil {
			return "", err
		}
	}
	return p.reply, nil
}

func (p *scriptedProvider) Name() string { return p.name }

type fixedResolver struct {
	provider llm.Provider
}

func (r *fixedResolver) Resolve(model string) (llm.Provider, string) { return r.provider, model }

func newOrchestrator(st ConversationStore, aug Augmenter, p llm.Provider) *Orchestrator {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewOrchestrator(st, aug, &fixedResolver{provider: p}, llm.NewStats(time.Hour), "phi3:mini", 15, log)
}

func TestSend_NewConversation(t *testing.T) {
	st := newFakeStore()
	p := &scriptedProvider{name: "ollama", reply: "hello back"}
	o := newOrchestrator(st, &fakeAugmenter{}, p)

	reply, err := o.Send(context.Background(), Request{Message: "hello"})
	require.NoError(t, err)

	assert.Equal(t, "hello back", reply.Response)
	assert.Equal(t, "phi3:mini", reply.Model)
	assert.NotEmpty(t, reply.ConversationID)

	msgs := st.messages[reply.ConversationID]
	require.Len(t, msgs, 2)
	assert.Equal(t, "user", msgs[0].Role)
	assert.Equal(t, "hello", msgs[0].Content)
	assert.Equal(t, "assistant", msgs[1].Role)
	assert.Equal(t, "hello back", msgs[1].Content)
}

func TestSend_RawMessagePersistedAugmentedSent(t *testing.T) {
	st := newFakeStore()
	p := &scriptedProvider{name: "ollama", reply: "ok"}
	o := newOrchestrator(st, &fakeAugmenter{suffix: " [with context]"}, p)

	reply, err := o.Send(context.Background(), Request{Message: "what does the report say"})
	require.NoError(t, err)

	sent := p.received[0]
	last := sent[len(sent)-1]
	assert.Equal(t, "what does the report say [with context]", last.Content)

	msgs := st.messages[reply.ConversationID]
	assert.Equal(t, "what does the report say", msgs[0].Content)
}

func TestSend_SystemPromptAndHistory(t *testing.T) {
	st := newFakeStore()
	conv, _ := st.CreateConversation(context.Background(), "Chat", "phi3:mini", "you are a pirate")
	for i := 0; i < 20; i++ {
		_, err := st.AppendMessage(context.Background(), conv.ID, "user", fmt.Sprintf("old %d", i))
		require.NoError(t, err)
	}

	p := &scriptedProvider{name: "ollama", reply: "arr"}
	o := newOrchestrator(st, &fakeAugmenter{}, p)

	_, err := o.Send(context.Background(), Request{ConversationID: conv.ID, Message: "ahoy"})
	require.NoError(t, err)

	sent := p.received[0]
	// System prompt, 15 history entries, current turn.
	require.Len(t, sent, 17)
	assert.Equal(t, llm.RoleSystem, sent[0].Role)
	assert.Equal(t, "you are a pirate", sent[0].Content)
	assert.Equal(t, "old 5", sent[1].Content)
	assert.Equal(t, "ahoy", sent[16].Content)
}

func TestSend_DefaultSystemPrompt(t *testing.T) {
	st := newFakeStore()
	p := &scriptedProvider{name: "ollama", reply: "ok"}
	o := newOrchestrator(st, &fakeAugmenter{}, p)

	_, err := o.Send(context.Background(), Request{Message: "hi"})
	require.NoError(t, err)

	assert.Equal(t, DefaultSystemPrompt, p.received[0][0].Content)
}

func TestSend_SystemPromptOverride(t *testing.T) {
	st := newFakeStore()
	conv, _ := st.CreateConversation(context.Background(), "Chat", "phi3:mini", "stored prompt")

	p := &scriptedProvider{name: "ollama", reply: "ok"}
	o := newOrchestrator(st, &fakeAugmenter{}, p)

	_, err := o.Send(context.Background(), Request{
		ConversationID: conv.ID,
		Message:        "hi",
		SystemPrompt:   "override prompt",
	})
	require.NoError(t, err)
	assert.Equal(t, "override prompt", p.received[0][0].Content)
}

func TestSend_UnknownConversation(t *testing.T) {
	o := newOrchestrator(newFakeStore(), &fakeAugmenter{}, &scriptedProvider{name: "ollama"})

	_, err := o.Send(context.Background(), Request{ConversationID: "missing", Message: "hi"})
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSend_EmptyMessage(t *testing.T) {
	o := newOrchestrator(newFakeStore(), &fakeAugmenter{}, &scriptedProvider{name: "ollama"})

	_, err := o.Send(context.Background(), Request{})
	require.Error(t, err)
}

func TestSend_RetriesTransientFailures(t *testing.T) {
	st := newFakeStore()
	p := &scriptedProvider{
		name:  "groq",
		reply: "recovered",
		errs:  []error{&llm.RetryableError{StatusCode: 503}, nil},
	}
	o := newOrchestrator(st, &fakeAugmenter{}, p)

	reply, err := o.Send(context.Background(), Request{Message: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "recovered", reply.Response)
	assert.Equal(t, 2, p.calls)
}

func TestSend_NonRetryableFailsFast(t *testing.T) {
	st := newFakeStore()
	p := &scriptedProvider{
		name: "groq",
		errs: []error{fmt.Errorf("invalid api key")},
	}
	o := newOrchestrator(st, &fakeAugmenter{}, p)

	_, err := o.Send(context.Background(), Request{Message: "hi"})
	require.Error(t, err)
	assert.Equal(t, 1, p.calls)

	// Nothing persisted on failure.
	for _, msgs := range st.messages {
		assert.Empty(t, msgs)
	}
}

func TestTitleFrom(t *testing.T) {
	assert.Equal(t, "short question", titleFrom("short question"))

	long := strings.Repeat("a", 80)
	got := titleFrom(long)
	assert.Equal(t, long[:50]+"...", got)
}
