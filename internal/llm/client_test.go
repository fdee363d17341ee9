package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOpenAIClient_Complete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("authorization = %q", got)
		}

		var req openAIRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Model != "gpt-4o" {
			t.Errorf("model = %s", req.Model)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != RoleSystem {
			t.Errorf("messages = %+v", req.Messages)
		}

		fmt.Fprint(w, `{"choices": [{"message": {"content": "hello there"}}]}`)
	}))
	defer srv.Close()

	c := newOpenAICompat("openai", srv.URL, "test-key", "gpt-4o")
	got, err := c.Complete(context.Background(), "", []Message{
		{Role: RoleSystem, Content: "be brief"},
		{Role: RoleUser, Content: "hi"},
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != "hello there" {
		t.Errorf("reply = %q", got)
	}
}

func TestOpenAIClient_ModelOverride(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req openAIRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Model != "gpt-4o-mini" {
			t.Errorf("model = %s, want gpt-4o-mini", req.Model)
		}
		fmt.Fprint(w, `{"choices": [{"message": {"content": "ok"}}]}`)
	}))
	defer srv.Close()

	c := newOpenAICompat("openai", srv.URL, "test-key", "gpt-4o")
	if _, err := c.Complete(context.Background(), "gpt-4o-mini", []Message{{Role: RoleUser, Content: "hi"}}); err != nil {
		t.Fatalf("Complete: %v", err)
	}
}

func TestOpenAIClient_RetryableOn429(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error": {"message": "rate limited"}}`)
	}))
	defer srv.Close()

	c := newOpenAICompat("openai", srv.URL, "test-key", "gpt-4o")
	_, err := c.Complete(context.Background(), "", []Message{{Role: RoleUser, Content: "hi"}})
	if err == nil {
		t.Fatal("expected error")
	}
	if !IsRetryable(err) {
		t.Errorf("expected retryable, got %v", err)
	}
}

func TestOpenAIClient_NonRetryableOn400(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error": {"message": "bad request"}}`)
	}))
	defer srv.Close()

	c := newOpenAICompat("openai", srv.URL, "test-key", "gpt-4o")
	_, err := c.Complete(context.Background(), "", []Message{{Role: RoleUser, Content: "hi"}})
	if err == nil {
		t.Fatal("expected error")
	}
	if IsRetryable(err) {
		t.Errorf("expected non-retryable, got %v", err)
	}
}

func TestClaudeClient_SystemMessageLifted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("x-api-key"); got != "test-key" {
			t.Errorf("x-api-key = %q", got)
		}
		if got := r.Header.Get("anthropic-version"); got != "2023-06-01" {
			t.Errorf("anthropic-version = %q", got)
		}

		var req anthropicRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.System != "be brief" {
			t.Errorf("system = %q", req.System)
		}
		for _, m := range req.Messages {
			if m.Role == "system" {
				t.Error("system role left in message list")
			}
		}

		fmt.Fprint(w, `{"content": [{"type": "text", "text": "claude reply"}]}`)
	}))
	defer srv.Close()

	c := NewClaude("test-key", "claude-sonnet-4")
	c.baseURL = srv.URL
	got, err := c.Complete(context.Background(), "", []Message{
		{Role: RoleSystem, Content: "be brief"},
		{Role: RoleUser, Content: "hi"},
		{Role: RoleAssistant, Content: "hello"},
		{Role: RoleUser, Content: "bye"},
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != "claude reply" {
		t.Errorf("reply = %q", got)
	}
}

func TestGeminiClient_RoleMapping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("key"); got != "test-key" {
			t.Errorf("key = %q", got)
		}

		var req geminiRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.SystemInstruction == nil || req.SystemInstruction.Parts[0].Text != "be brief" {
			t.Errorf("systemInstruction = %+v", req.SystemInstruction)
		}
		if len(req.Contents) != 2 || req.Contents[0].Role != "user" || req.Contents[1].Role != "model" {
			t.Errorf("contents = %+v", req.Contents)
		}

		fmt.Fprint(w, `{"candidates": [{"content": {"parts": [{"text": "gemini reply"}]}}]}`)
	}))
	defer srv.Close()

	c := NewGemini("test-key", "gemini-2.0-flash")
	c.baseURL = srv.URL
	got, err := c.Complete(context.Background(), "", []Message{
		{Role: RoleSystem, Content: "be brief"},
		{Role: RoleUser, Content: "hi"},
		{Role: RoleAssistant, Content: "hello"},
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != "gemini reply" {
		t.Errorf("reply = %q", got)
	}
}

func TestOllamaClient_Complete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("path = %s", r.URL.Path)
		}

		var req ollamaChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Stream {
			t.Error("stream should be disabled")
		}

		fmt.Fprint(w, `{"message": {"content": "local reply"}, "done": true}`)
	}))
	defer srv.Close()

	c := NewOllama(srv.URL, "phi3:mini")
	got, err := c.Complete(context.Background(), "", []Message{{Role: RoleUser, Content: "hi"}})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != "local reply" {
		t.Errorf("reply = %q", got)
	}
}

func TestBackoff_CapsAndJitters(t *testing.T) {
	for attempt := 0; attempt < 10; attempt++ {
		d := Backoff(attempt)
		if d < 0 || d > 45_000_000_000 {
			t.Errorf("Backoff(%d) = %v out of range", attempt, d)
		}
	}
}
