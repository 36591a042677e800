package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/mamaope/legalconsult/internal/models"
)

// AppendMessage stores a message and bumps the session's updated_at.
func (s *Store) AppendMessage(m models.Message) (int64, error) {
	now := time.Now().UTC()
	res, err := s.db.Exec(`
		INSERT INTO messages (session_id, role, content, case_data, analysis_complete, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, m.SessionID, m.Role, m.Content, m.CaseData, m.AnalysisComplete, now)
	if err != nil {
		return 0, fmt.Errorf("insert message: %w", err)
	}
	if _, err := s.db.Exec(`UPDATE sessions SET updated_at = ? WHERE id = ?`, now, m.SessionID); err != nil {
		return 0, fmt.Errorf("touch session: %w", err)
	}
	return res.LastInsertId()
}

// GetMessages returns a session's messages in insertion order.
func (s *Store) GetMessages(sessionID string) ([]models.Message, error) {
	rows, err := s.db.Query(`
		SELECT id, session_id, role, content, case_data, analysis_complete, created_at
		FROM messages
		WHERE session_id = ?
		ORDER BY id ASC
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Role, &m.Content, &m.CaseData, &m.AnalysisComplete, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// LastMessage returns the most recent message of a session, or nil.
func (s *Store) LastMessage(sessionID string) (*models.Message, error) {
	row := s.db.QueryRow(`
		SELECT id, session_id, role, content, case_data, analysis_complete, created_at
		FROM messages
		WHERE session_id = ?
		ORDER BY id DESC
		LIMIT 1
	`, sessionID)

	var m models.Message
	err := row.Scan(&m.ID, &m.SessionID, &m.Role, &m.Content, &m.CaseData, &m.AnalysisComplete, &m.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}
