package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Vishwa-247/smart-ai-conversations-hub/internal/chat"
	"github.com/Vishwa-247/smart-ai-conversations-hub/internal/store"
)

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chat.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Message == "" {
		jsonError(w, "message is required", http.StatusBadRequest)
		return
	}

	reply, err := s.orchestrator.Send(r.Context(), req)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			jsonError(w, "conversation not found", http.StatusNotFound)
			return
		}
		s.log.Error("chat turn failed", "error", err)
		jsonError(w, "failed to generate response: "+err.Error(), http.StatusBadGateway)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"role":            "assistant",
		"content":         reply.Response,
		"conversation_id": reply.ConversationID,
		"model_used":      reply.Model,
		"provider":        reply.Provider,
	})
}

func (s *Server) handleListChats(w http.ResponseWriter, r *http.Request) {
	convs, err := s.store.ListConversations(r.Context())
	if err != nil {
		s.log.Error("list conversations failed", "error", err)
		jsonError(w, "failed to list conversations", http.StatusInternalServerError)
		return
	}
	if convs == nil {
		convs = []*store.Conversation{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"chats": convs})
}

func (s *Server) handleCreateChat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title        string `json:"title"`
		Model        string `json:"model"`
		SystemPrompt string `json:"system_prompt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Title == "" {
		req.Title = "New Chat"
	}
	if req.Model == "" {
		req.Model = s.cfg.DefaultModel
	}

	conv, err := s.store.CreateConversation(r.Context(), req.Title, req.Model, req.SystemPrompt)
	if err != nil {
		s.log.Error("create conversation failed", "error", err)
		jsonError(w, "failed to create conversation", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, conv)
}

func (s *Server) handleGetChat(w http.ResponseWriter, r *http.Request) {
	chatID := chi.URLParam(r, "chatID")

	conv, err := s.store.GetConversation(r.Context(), chatID)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, "conversation not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.log.Error("get conversation failed", "error", err)
		jsonError(w, "failed to load conversation", http.StatusInternalServerError)
		return
	}

	var msgs []*store.Message
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit <= 0 {
			jsonError(w, "invalid limit", http.StatusBadRequest)
			return
		}
		msgs, err = s.store.History(r.Context(), chatID, limit)
		if err != nil {
			s.log.Error("load history failed", "error", err)
			jsonError(w, "failed to load messages", http.StatusInternalServerError)
			return
		}
	} else {
		msgs, err = s.store.Messages(r.Context(), chatID)
		if err != nil {
			s.log.Error("load messages failed", "error", err)
			jsonError(w, "failed to load messages", http.StatusInternalServerError)
			return
		}
	}
	if msgs == nil {
		msgs = []*store.Message{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"conversation": conv,
		"messages":     msgs,
	})
}

func (s *Server) handleDeleteChat(w http.ResponseWriter, r *http.Request) {
	chatID := chi.URLParam(r, "chatID")

	ok, err := s.store.DeleteConversation(r.Context(), chatID)
	if err != nil {
		s.log.Error("delete conversation failed", "error", err)
		jsonError(w, "failed to delete conversation", http.StatusInternalServerError)
		return
	}
	if !ok {
		jsonError(w, "conversation not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "conversation deleted"})
}

func (s *Server) handleUpdateSystemPrompt(w http.ResponseWriter, r *http.Request) {
	chatID := chi.URLParam(r, "chatID")

	var req struct {
		SystemPrompt string `json:"system_prompt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	err := s.store.UpdateSystemPrompt(r.Context(), chatID, req.SystemPrompt)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, "conversation not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.log.Error("update system prompt failed", "error", err)
		jsonError(w, "failed to update system prompt", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "system prompt updated"})
}

func (s *Server) handleAppendMessage(w http.ResponseWriter, r *http.Request) {
	chatID := chi.URLParam(r, "chatID")

	var req struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	switch req.Role {
	case "user", "assistant", "system":
	default:
		jsonError(w, "role must be user, assistant or system", http.StatusBadRequest)
		return
	}
	if req.Content == "" {
		jsonError(w, "content is required", http.StatusBadRequest)
		return
	}

	msg, err := s.store.AppendMessage(r.Context(), chatID, req.Role, req.Content)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, "conversation not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.log.Error("append message failed", "error", err)
		jsonError(w, "failed to append message", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}
