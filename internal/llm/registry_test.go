package llm

import (
	"context"
	"io"
	"log/slog"
	"testing"
)

type stubProvider struct {
	name  string
	reply string
}

func (p *stubProvider) Complete(ctx context.Context, model string, messages []Message) (string, error) {
	return p.reply, nil
}

func (p *stubProvider) Name() string { return p.name }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRegistry_ResolveByPrefix(t *testing.T) {
	fallback := &stubProvider{name: "ollama"}
	openai := &stubProvider{name: "openai"}
	claude := &stubProvider{name: "claude"}

	r := NewRegistry(fallback, testLogger())
	r.Register(openai, "gpt", "o1")
	r.Register(claude, "claude")

	cases := []struct {
		model     string
		want      string
		wantModel string
	}{
		{"gpt-4o", "openai", "gpt-4o"},
		{"GPT-4o-mini", "openai", "GPT-4o-mini"},
		{"o1-preview", "openai", "o1-preview"},
		{"claude-sonnet-4", "claude", "claude-sonnet-4"},
		{"phi3:mini", "ollama", ""},
		{"", "ollama", ""},
	}
	for _, tc := range cases {
		p, model := r.Resolve(tc.model)
		if p.Name() != tc.want {
			t.Errorf("Resolve(%q) = %s, want %s", tc.model, p.Name(), tc.want)
		}
		if model != tc.wantModel {
			t.Errorf("Resolve(%q) model = %q, want %q", tc.model, model, tc.wantModel)
		}
	}
}

func TestRegistry_NilProviderIgnored(t *testing.T) {
	fallback := &stubProvider{name: "ollama"}
	r := NewRegistry(fallback, testLogger())
	r.Register(nil, "gpt")

	if p, _ := r.Resolve("gpt-4o"); p.Name() != "ollama" {
		t.Errorf("Resolve = %s, want ollama", p.Name())
	}
	if n := len(r.Providers()); n != 1 {
		t.Errorf("Providers() len = %d, want 1", n)
	}
}

func TestRegistry_ProvidersIncludesFallback(t *testing.T) {
	fallback := &stubProvider{name: "ollama"}
	openai := &stubProvider{name: "openai"}

	r := NewRegistry(fallback, testLogger())
	r.Register(openai, "gpt")

	ps := r.Providers()
	if len(ps) != 2 {
		t.Fatalf("Providers() len = %d, want 2", len(ps))
	}
	if ps[len(ps)-1].Name() != "ollama" {
		t.Errorf("last provider = %s, want fallback", ps[len(ps)-1].Name())
	}
}
