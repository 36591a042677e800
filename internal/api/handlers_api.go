package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mamaope/legalconsult/internal/consult"
	"github.com/mamaope/legalconsult/internal/llm"
	"github.com/mamaope/legalconsult/internal/metrics"
	"github.com/mamaope/legalconsult/internal/models"
	"github.com/mamaope/legalconsult/internal/store"
)

const maxContentLength = 32 * 1024

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":          "ok",
		"model_available": s.completer != nil,
		"time":            time.Now().UTC(),
	})
}

// handleSessions serves the collection endpoint: POST creates a session,
// GET lists them.
func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	switch r.Method {
	case http.MethodPost:
		s.createSession(w, r, started)
	case http.MethodGet:
		s.listSessions(w, r, started)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", started)
	}
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request, started time.Time) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", started)
		return
	}
	name := strings.TrimSpace(req.SessionName)
	if name == "" {
		name = "New consultation"
	}

	sess, err := s.store.CreateSession(defaultUserID, name, strings.TrimSpace(req.CaseSummary))
	if err != nil {
		log.Printf("create session: %v", err)
		writeError(w, http.StatusInternalServerError, "could not create session", started)
		return
	}
	metrics.SessionsCreated.Inc()
	writeSuccess(w, http.StatusCreated, sessionView(sess), started)
}

func (s *Server) listSessions(w http.ResponseWriter, r *http.Request, started time.Time) {
	page := queryInt(r, "page", 1)
	perPage := queryInt(r, "per_page", 20)

	sessions, total, err := s.store.ListSessions(defaultUserID, page, perPage)
	if err != nil {
		log.Printf("list sessions: %v", err)
		writeError(w, http.StatusInternalServerError, "could not list sessions", started)
		return
	}

	view := SessionListView{Sessions: []SessionView{}, Total: total, Page: page, PerPage: perPage}
	for _, sess := range sessions {
		v := sessionView(sess)
		if last, err := s.store.LastMessage(sess.ID); err == nil && last != nil {
			v.LastMessagePreview = s.excerpt(last.Content)
		}
		view.Sessions = append(view.Sessions, v)
	}
	writeSuccess(w, http.StatusOK, view, started)
}

// handleSession routes /api/v1/sessions/{id} and /api/v1/sessions/{id}/messages.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/sessions/")
	parts := strings.SplitN(strings.Trim(rest, "/"), "/", 2)
	id := parts[0]
	if id == "" {
		writeError(w, http.StatusNotFound, "session id required", started)
		return
	}

	if len(parts) == 2 {
		if parts[1] != "messages" {
			writeError(w, http.StatusNotFound, "not found", started)
			return
		}
		switch r.Method {
		case http.MethodGet:
			s.getMessages(w, r, id, started)
		case http.MethodPost:
			s.postMessage(w, r, id, started)
		default:
			writeError(w, http.StatusMethodNotAllowed, "method not allowed", started)
		}
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.getSession(w, id, started)
	case http.MethodPut:
		s.renameSession(w, r, id, started)
	case http.MethodDelete:
		s.deleteSession(w, id, started)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", started)
	}
}

func (s *Server) getSession(w http.ResponseWriter, id string, started time.Time) {
	sess, err := s.store.GetSession(id)
	if err != nil {
		log.Printf("get session %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "could not load session", started)
		return
	}
	if sess == nil {
		writeError(w, http.StatusNotFound, "session not found", started)
		return
	}

	messages, err := s.store.GetMessages(id)
	if err != nil {
		log.Printf("get messages %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "could not load messages", started)
		return
	}

	view := SessionWithMessages{SessionView: sessionView(*sess), Messages: []MessageView{}}
	for _, m := range messages {
		view.Messages = append(view.Messages, s.messageView(m))
	}
	metrics.RendersTotal.WithLabelValues("api").Add(float64(len(messages)))
	writeSuccess(w, http.StatusOK, view, started)
}

func (s *Server) renameSession(w http.ResponseWriter, r *http.Request, id string, started time.Time) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", started)
		return
	}
	name := strings.TrimSpace(req.SessionName)
	if name == "" {
		writeError(w, http.StatusBadRequest, "session_name required", started)
		return
	}

	if err := s.store.RenameSession(id, name); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "session not found", started)
			return
		}
		log.Printf("rename session %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "could not rename session", started)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]string{"id": id, "session_name": name}, started)
}

func (s *Server) deleteSession(w http.ResponseWriter, id string, started time.Time) {
	if err := s.store.DeleteSession(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "session not found", started)
			return
		}
		log.Printf("delete session %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "could not delete session", started)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]string{"id": id, "deleted": "true"}, started)
}

func (s *Server) getMessages(w http.ResponseWriter, r *http.Request, id string, started time.Time) {
	sess, err := s.store.GetSession(id)
	if err != nil {
		log.Printf("get session %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "could not load session", started)
		return
	}
	if sess == nil {
		writeError(w, http.StatusNotFound, "session not found", started)
		return
	}

	messages, err := s.store.GetMessages(id)
	if err != nil {
		log.Printf("get messages %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "could not load messages", started)
		return
	}

	views := []MessageView{}
	for _, m := range messages {
		views = append(views, s.messageView(m))
	}
	metrics.RendersTotal.WithLabelValues("api").Add(float64(len(messages)))
	writeSuccess(w, http.StatusOK, views, started)
}

// postMessage runs the full consultation turn: classify the query, fetch or
// reuse a completion, process the response, store both sides of the exchange
// and return the rendered result.
func (s *Server) postMessage(w http.ResponseWriter, r *http.Request, id string, started time.Time) {
	var req PostMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", started)
		return
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		writeError(w, http.StatusBadRequest, "content required", started)
		return
	}
	if len(content) > maxContentLength {
		writeError(w, http.StatusBadRequest, "content too long", started)
		return
	}

	sess, err := s.store.GetSession(id)
	if err != nil {
		log.Printf("get session %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "could not load session", started)
		return
	}
	if sess == nil {
		writeError(w, http.StatusNotFound, "session not found", started)
		return
	}
	if s.completer == nil {
		writeError(w, http.StatusServiceUnavailable, "model unavailable", started)
		return
	}

	queryType, confidence := consult.Classify(content, req.CaseData)
	system := consult.SystemPrompt(queryType)
	userPrompt := content
	if req.CaseData != "" {
		userPrompt = fmt.Sprintf("%s\n\nCase details:\n%s", content, req.CaseData)
	}

	raw, cached, err := s.complete(r, system, userPrompt)
	if err != nil {
		log.Printf("complete session %s: %v", id, err)
		writeError(w, http.StatusBadGateway, "model request failed", started)
		return
	}

	processed := s.processor.Process(raw, queryType)
	validation := consult.Validate(processed.Content, queryType)

	userMsg := models.Message{SessionID: id, Role: models.RoleUser, Content: content}
	if req.CaseData != "" {
		userMsg.CaseData.String = req.CaseData
		userMsg.CaseData.Valid = true
	}
	userID, err := s.store.AppendMessage(userMsg)
	if err != nil {
		log.Printf("store user message %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "could not store message", started)
		return
	}
	metrics.MessagesStored.WithLabelValues(models.RoleUser).Inc()

	assistantMsg := models.Message{
		SessionID:        id,
		Role:             models.RoleAssistant,
		Content:          processed.Content,
		AnalysisComplete: processed.Valid,
	}
	assistantID, err := s.store.AppendMessage(assistantMsg)
	if err != nil {
		log.Printf("store assistant message %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "could not store message", started)
		return
	}
	metrics.MessagesStored.WithLabelValues(models.RoleAssistant).Inc()

	now := time.Now().UTC()
	userMsg.ID = userID
	userMsg.CreatedAt = now
	assistantMsg.ID = assistantID
	assistantMsg.CreatedAt = now

	metrics.RendersTotal.WithLabelValues("api").Inc()
	writeSuccess(w, http.StatusCreated, PostMessageResponse{
		UserMessage:      s.messageView(userMsg),
		AssistantMessage: s.messageView(assistantMsg),
		QueryType:        queryType,
		Confidence:       confidence,
		Validation:       validation,
		Sources:          consult.ExtractSources(processed.Content),
		Cached:           cached,
	}, started)
}

// complete resolves a prompt pair through the TTL cache, hitting the model
// only on a miss.
func (s *Server) complete(r *http.Request, system, user string) (string, bool, error) {
	key := llm.Key(system, user)
	if s.cache != nil {
		if resp, ok := s.cache.Get(key); ok {
			metrics.CacheHits.WithLabelValues("hit").Inc()
			return resp, true, nil
		}
		metrics.CacheHits.WithLabelValues("miss").Inc()
	}

	resp, err := s.completer.Complete(r.Context(), system, user)
	if err != nil {
		return "", false, err
	}
	if s.cache != nil {
		s.cache.Put(key, resp)
	}
	return resp, false, nil
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
