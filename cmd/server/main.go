package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Vishwa-247/smart-ai-conversations-hub/internal/api"
	"github.com/Vishwa-247/smart-ai-conversations-hub/internal/chat"
	"github.com/Vishwa-247/smart-ai-conversations-hub/internal/chunker"
	"github.com/Vishwa-247/smart-ai-conversations-hub/internal/config"
	"github.com/Vishwa-247/smart-ai-conversations-hub/internal/docstore"
	"github.com/Vishwa-247/smart-ai-conversations-hub/internal/extract"
	"github.com/Vishwa-247/smart-ai-conversations-hub/internal/llm"
	"github.com/Vishwa-247/smart-ai-conversations-hub/internal/rag"
	"github.com/Vishwa-247/smart-ai-conversations-hub/internal/scrape"
	"github.com/Vishwa-247/smart-ai-conversations-hub/internal/store"
	"github.com/Vishwa-247/smart-ai-conversations-hub/internal/websearch"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Persistence.
	st, err := store.Open(cfg.DatabasePath)
	if err != nil {
		log.Error("failed to open database", "path", cfg.DatabasePath, "error", err)
		os.Exit(1)
	}

	chunkCfg := chunker.Config{ChunkSize: cfg.ChunkSize, Overlap: cfg.ChunkOverlap}
	docs, err := docstore.New(cfg.DocumentsDir, extract.FromBytes, chunkCfg, log)
	if err != nil {
		log.Error("failed to initialize document store", "dir", cfg.DocumentsDir, "error", err)
		os.Exit(1)
	}

	// Retrieval and augmentation.
	search := websearch.NewClient(cfg.SearchTimeout, log)
	retriever := rag.NewRetriever(docs, cfg.TopK, log)
	composer := rag.NewComposer(rag.DefaultTriggers(), retriever, docs, search, log)

	// Providers. Hosted clients are only created when a key is configured;
	// Ollama is always available as the fallback.
	ollama := llm.NewOllama(cfg.OllamaURL, cfg.OllamaModel)
	registry := llm.NewRegistry(ollama, log)
	var closers []interface{ Close() }
	closers = append(closers, ollama)

	if cfg.OpenAIAPIKey != "" {
		c := llm.NewOpenAI(cfg.OpenAIAPIKey, "")
		registry.Register(c, "gpt", "o1", "o3")
		closers = append(closers, c)
	}
	if cfg.GroqAPIKey != "" {
		c := llm.NewGroq(cfg.GroqAPIKey, "")
		registry.Register(c, "llama", "mixtral", "gemma")
		closers = append(closers, c)
	}
	if cfg.XAIAPIKey != "" {
		c := llm.NewGrok(cfg.XAIAPIKey, "")
		registry.Register(c, "grok")
		closers = append(closers, c)
	}
	if cfg.GeminiAPIKey != "" {
		c := llm.NewGemini(cfg.GeminiAPIKey, "")
		registry.Register(c, "gemini")
		closers = append(closers, c)
	}
	if cfg.AnthropicAPIKey != "" {
		c := llm.NewClaude(cfg.AnthropicAPIKey, "")
		registry.Register(c, "claude")
		closers = append(closers, c)
	}

	stats := llm.NewStats(time.Hour)
	orch := chat.NewOrchestrator(st, composer, registry, stats, cfg.DefaultModel, cfg.HistoryLimit, log)
	scraper := scrape.NewScraper(cfg.SearchTimeout, log)

	srv := api.NewServer(orch, st, docs, scraper, stats, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		for _, c := range closers {
			c.Close()
		}
		st.Close()
	}()

	log.Info("starting conversations hub", "port", cfg.Port, "model", cfg.DefaultModel)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
