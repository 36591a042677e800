package api

import (
	"time"

	"github.com/mamaope/legalconsult/internal/consult"
	"github.com/mamaope/legalconsult/internal/models"
)

type SessionView struct {
	ID                 string    `json:"id"`
	SessionName        string    `json:"session_name"`
	CaseSummary        string    `json:"case_summary,omitempty"`
	IsActive           bool      `json:"is_active"`
	MessageCount       int       `json:"message_count"`
	LastMessagePreview string    `json:"last_message_preview,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type SessionListView struct {
	Sessions []SessionView `json:"sessions"`
	Total    int           `json:"total"`
	Page     int           `json:"page"`
	PerPage  int           `json:"per_page"`
}

type MessageView struct {
	ID               int64     `json:"id"`
	SessionID        string    `json:"session_id"`
	Role             string    `json:"role"`
	Content          string    `json:"content"`
	RenderedHTML     string    `json:"rendered_html,omitempty"`
	CaseData         string    `json:"case_data,omitempty"`
	AnalysisComplete bool      `json:"analysis_complete"`
	CreatedAt        time.Time `json:"created_at"`
}

type SessionWithMessages struct {
	SessionView
	Messages []MessageView `json:"messages"`
}

type PostMessageRequest struct {
	Content  string `json:"content"`
	CaseData string `json:"case_data,omitempty"`
}

type PostMessageResponse struct {
	UserMessage      MessageView        `json:"user_message"`
	AssistantMessage MessageView        `json:"assistant_message"`
	QueryType        consult.QueryType  `json:"query_type"`
	Confidence       float64            `json:"confidence"`
	Validation       consult.Validation `json:"validation"`
	Sources          []string           `json:"sources,omitempty"`
	Cached           bool               `json:"cached"`
}

type CreateSessionRequest struct {
	SessionName string `json:"session_name"`
	CaseSummary string `json:"case_summary,omitempty"`
}

func sessionView(sess models.Session) SessionView {
	v := SessionView{
		ID:           sess.ID,
		SessionName:  sess.Name,
		IsActive:     sess.Active,
		MessageCount: sess.MessageCount,
		CreatedAt:    sess.CreatedAt,
		UpdatedAt:    sess.UpdatedAt,
	}
	if sess.CaseSummary.Valid {
		v.CaseSummary = sess.CaseSummary.String
	}
	return v
}

// messageView converts a stored message; assistant content additionally gets
// its sanitized HTML form.
func (s *Server) messageView(m models.Message) MessageView {
	v := MessageView{
		ID:               m.ID,
		SessionID:        m.SessionID,
		Role:             m.Role,
		Content:          m.Content,
		AnalysisComplete: m.AnalysisComplete,
		CreatedAt:        m.CreatedAt,
	}
	if m.CaseData.Valid {
		v.CaseData = m.CaseData.String
	}
	if m.Role == models.RoleAssistant {
		v.RenderedHTML = s.renderer.Render(m.Content)
	}
	return v
}
