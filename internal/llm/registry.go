package llm

import (
	"log/slog"
	"strings"
)

// Registry routes a requested model name to a configured provider. Matching
// is by model-name prefix ("gpt" goes to OpenAI, "claude" to Anthropic, and
// so on). Anything unmatched, or matched to a provider that was never
// configured, falls back to the local provider so chat keeps working without
// any hosted API keys.
type Registry struct {
	routes   []route
	fallback Provider
	log      *slog.Logger
}

type route struct {
	prefixes []string
	provider Provider
}

func NewRegistry(fallback Provider, log *slog.Logger) *Registry {
	return &Registry{fallback: fallback, log: log}
}

// Register binds model-name prefixes to a provider. A nil provider is
// ignored so callers can pass the result of conditional construction
// directly.
func (r *Registry) Register(provider Provider, prefixes ...string) {
	if provider == nil {
		return
	}
	r.routes = append(r.routes, route{prefixes: prefixes, provider: provider})
}

// Resolve picks the provider for a model name and the model to request from
// it. On fallback the requested name is discarded: the local provider serves
// its own configured model, not a hosted model name it cannot load.
func (r *Registry) Resolve(model string) (Provider, string) {
	m := strings.ToLower(strings.TrimSpace(model))
	for _, rt := range r.routes {
		for _, p := range rt.prefixes {
			if strings.HasPrefix(m, p) {
				return rt.provider, model
			}
		}
	}
	if m != "" {
		r.log.Debug("no provider for model, using fallback", "model", model, "fallback", r.fallback.Name())
	}
	return r.fallback, ""
}

// Providers returns every registered provider plus the fallback, for
// shutdown.
func (r *Registry) Providers() []Provider {
	out := make([]Provider, 0, len(r.routes)+1)
	for _, rt := range r.routes {
		out = append(out, rt.provider)
	}
	return append(out, r.fallback)
}
