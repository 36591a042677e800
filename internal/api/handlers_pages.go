package api

import (
	"html/template"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/mamaope/legalconsult/internal/htmlutil"
	"github.com/mamaope/legalconsult/internal/metrics"
	"github.com/mamaope/legalconsult/internal/models"
)

const previewLength = 120

// excerpt builds a short plain-text preview of a message body for listings.
func (s *Server) excerpt(content string) string {
	return htmlutil.Excerpt(s.renderer.Render(content), previewLength)
}

type sessionPageItem struct {
	ID           string
	Name         string
	CaseSummary  string
	MessageCount int
	Preview      string
	UpdatedAt    time.Time
}

type indexPageData struct {
	Sessions []sessionPageItem
	Total    int
}

type chatMessage struct {
	Role      string
	Content   string
	HTML      template.HTML
	CreatedAt time.Time
}

type chatPageData struct {
	Session  sessionPageItem
	Messages []chatMessage
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	sessions, total, err := s.store.ListSessions(defaultUserID, 1, 50)
	if err != nil {
		log.Printf("index: list sessions: %v", err)
		http.Error(w, "could not load sessions", http.StatusInternalServerError)
		return
	}

	data := indexPageData{Total: total}
	for _, sess := range sessions {
		item := sessionPageItem{
			ID:           sess.ID,
			Name:         sess.Name,
			MessageCount: sess.MessageCount,
			UpdatedAt:    sess.UpdatedAt,
		}
		if sess.CaseSummary.Valid {
			item.CaseSummary = sess.CaseSummary.String
		}
		if last, err := s.store.LastMessage(sess.ID); err == nil && last != nil {
			item.Preview = s.excerpt(last.Content)
		}
		data.Sessions = append(data.Sessions, item)
	}

	if err := s.tmpl.ExecuteTemplate(w, "sessions.html", data); err != nil {
		log.Printf("index: render: %v", err)
	}
}

func (s *Server) handleChatPage(w http.ResponseWriter, r *http.Request) {
	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/chat/"), "/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}

	sess, err := s.store.GetSession(id)
	if err != nil {
		log.Printf("chat page: get session %s: %v", id, err)
		http.Error(w, "could not load session", http.StatusInternalServerError)
		return
	}
	if sess == nil {
		http.NotFound(w, r)
		return
	}

	messages, err := s.store.GetMessages(id)
	if err != nil {
		log.Printf("chat page: get messages %s: %v", id, err)
		http.Error(w, "could not load messages", http.StatusInternalServerError)
		return
	}

	data := chatPageData{
		Session: sessionPageItem{
			ID:           sess.ID,
			Name:         sess.Name,
			MessageCount: sess.MessageCount,
			UpdatedAt:    sess.UpdatedAt,
		},
	}
	if sess.CaseSummary.Valid {
		data.Session.CaseSummary = sess.CaseSummary.String
	}
	for _, m := range messages {
		msg := chatMessage{Role: m.Role, Content: m.Content, CreatedAt: m.CreatedAt}
		if m.Role == models.RoleAssistant {
			// Renderer output is sanitized; safe to mark as trusted HTML.
			msg.HTML = template.HTML(s.renderer.Render(m.Content))
			metrics.RendersTotal.WithLabelValues("page").Inc()
		}
		data.Messages = append(data.Messages, msg)
	}

	if err := s.tmpl.ExecuteTemplate(w, "chat.html", data); err != nil {
		log.Printf("chat page: render: %v", err)
	}
}
