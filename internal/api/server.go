package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Vishwa-247/smart-ai-conversations-hub/internal/chat"
	"github.com/Vishwa-247/smart-ai-conversations-hub/internal/config"
	"github.com/Vishwa-247/smart-ai-conversations-hub/internal/docstore"
	"github.com/Vishwa-247/smart-ai-conversations-hub/internal/llm"
	"github.com/Vishwa-247/smart-ai-conversations-hub/internal/scrape"
	"github.com/Vishwa-247/smart-ai-conversations-hub/internal/store"
)

// Server is the HTTP API server for the conversations hub.
type Server struct {
	router       chi.Router
	orchestrator *chat.Orchestrator
	store        *store.Store
	docs         *docstore.Store
	scraper      *scrape.Scraper
	stats        *llm.Stats
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(orch *chat.Orchestrator, st *store.Store, docs *docstore.Store, scraper *scrape.Scraper, stats *llm.Stats, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		store:        st,
		docs:         docs,
		scraper:      scraper,
		stats:        stats,
		log:          log,
		cfg:          cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/api/health", s.handleHealth)

	r.Post("/api/chat", s.handleChat)
	r.Get("/api/chats", s.handleListChats)
	r.Post("/api/chats", s.handleCreateChat)
	r.Get("/api/chats/{chatID}", s.handleGetChat)
	r.Delete("/api/chats/{chatID}", s.handleDeleteChat)
	r.Patch("/api/chats/{chatID}/system-prompt", s.handleUpdateSystemPrompt)
	r.Post("/api/chats/{chatID}/messages", s.handleAppendMessage)

	r.Post("/api/upload-document", s.handleUploadDocument)
	r.Get("/api/documents", s.handleListDocuments)
	r.Delete("/api/documents", s.handleDeleteDocument)

	r.Post("/api/scrape-url", s.handleScrapeURL)
	r.Get("/api/stats/llm", s.handleLLMStats)

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
