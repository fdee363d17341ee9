package api

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/Vishwa-247/smart-ai-conversations-hub/internal/scrape"
)

func (s *Server) handleScrapeURL(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	u, err := url.Parse(req.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		jsonError(w, "url must be a valid http or https address", http.StatusBadRequest)
		return
	}

	res, err := s.scraper.Scrape(r.Context(), req.URL)
	if err != nil {
		s.log.Warn("scrape failed", "url", req.URL, "error", err)
		jsonError(w, "failed to scrape url: "+err.Error(), http.StatusBadGateway)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"url":     res.URL,
		"title":   res.Title,
		"content": scrape.FormatResult(res),
	})
}

func (s *Server) handleLLMStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"providers": s.stats.Snapshot(),
	})
}
