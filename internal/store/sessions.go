package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mamaope/legalconsult/internal/models"
)

func (s *Store) UpsertUser(u models.User) error {
	_, err := s.db.Exec(`
		INSERT INTO users (id, email, full_name, active)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			email = excluded.email,
			full_name = excluded.full_name,
			active = excluded.active
	`, u.ID, u.Email, u.FullName, u.Active)
	return err
}

func (s *Store) CreateSession(userID, name string, caseSummary string) (models.Session, error) {
	now := time.Now().UTC()
	sess := models.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      name,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if caseSummary != "" {
		sess.CaseSummary = sql.NullString{String: caseSummary, Valid: true}
	}
	_, err := s.db.Exec(`
		INSERT INTO sessions (id, user_id, name, case_summary, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, sess.ID, sess.UserID, sess.Name, sess.CaseSummary, sess.Active, sess.CreatedAt, sess.UpdatedAt)
	if err != nil {
		return models.Session{}, fmt.Errorf("insert session: %w", err)
	}
	return sess, nil
}

func (s *Store) GetSession(id string) (*models.Session, error) {
	row := s.db.QueryRow(`
		SELECT s.id, s.user_id, s.name, s.case_summary, s.active, s.created_at, s.updated_at,
		       (SELECT COUNT(*) FROM messages m WHERE m.session_id = s.id)
		FROM sessions s
		WHERE s.id = ?
	`, id)

	var sess models.Session
	err := row.Scan(&sess.ID, &sess.UserID, &sess.Name, &sess.CaseSummary, &sess.Active, &sess.CreatedAt, &sess.UpdatedAt, &sess.MessageCount)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

// ListSessions returns a page of the user's sessions, newest-updated first,
// with message counts, plus the total session count.
func (s *Store) ListSessions(userID string, page, perPage int) ([]models.Session, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	var total int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM sessions WHERE user_id = ?`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.db.Query(`
		SELECT s.id, s.user_id, s.name, s.case_summary, s.active, s.created_at, s.updated_at,
		       (SELECT COUNT(*) FROM messages m WHERE m.session_id = s.id)
		FROM sessions s
		WHERE s.user_id = ?
		ORDER BY s.updated_at DESC
		LIMIT ? OFFSET ?
	`, userID, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var sessions []models.Session
	for rows.Next() {
		var sess models.Session
		if err := rows.Scan(&sess.ID, &sess.UserID, &sess.Name, &sess.CaseSummary, &sess.Active, &sess.CreatedAt, &sess.UpdatedAt, &sess.MessageCount); err != nil {
			return nil, 0, err
		}
		sessions = append(sessions, sess)
	}
	return sessions, total, rows.Err()
}

func (s *Store) RenameSession(id, name string) error {
	res, err := s.db.Exec(`UPDATE sessions SET name = ?, updated_at = ? WHERE id = ?`, name, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *Store) DeactivateSession(id string) error {
	res, err := s.db.Exec(`UPDATE sessions SET active = FALSE, updated_at = ? WHERE id = ?`, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// DeleteSession removes a session and its messages.
func (s *Store) DeleteSession(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM messages WHERE session_id = ?`, id); err != nil {
		tx.Rollback()
		return fmt.Errorf("delete messages: %w", err)
	}
	res, err := tx.Exec(`DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("delete session: %w", err)
	}
	if err := requireRow(res); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// PruneSessions deletes inactive sessions not updated within the retention
// window, along with their messages. Returns the number of sessions removed.
func (s *Store) PruneSessions(retention time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-retention)

	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	if _, err := tx.Exec(`
		DELETE FROM messages WHERE session_id IN (
			SELECT id FROM sessions WHERE active = FALSE AND updated_at < ?
		)
	`, cutoff); err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("prune messages: %w", err)
	}
	res, err := tx.Exec(`DELETE FROM sessions WHERE active = FALSE AND updated_at < ?`, cutoff)
	if err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("prune sessions: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, tx.Commit()
}

var ErrNotFound = sql.ErrNoRows

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
