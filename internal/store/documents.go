package store

import (
	"time"

	"github.com/mamaope/legalconsult/internal/models"
)

func (s *Store) UpsertDocument(d models.Document) error {
	_, err := s.db.Exec(`
		INSERT INTO documents (name, size, mod_time, fetched_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			size = excluded.size,
			mod_time = excluded.mod_time,
			fetched_at = excluded.fetched_at
	`, d.Name, d.Size, d.ModTime, d.FetchedAt)
	return err
}

func (s *Store) ListDocuments() ([]models.Document, error) {
	rows, err := s.db.Query(`SELECT name, size, mod_time, fetched_at FROM documents ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []models.Document
	for rows.Next() {
		var d models.Document
		if err := rows.Scan(&d.Name, &d.Size, &d.ModTime, &d.FetchedAt); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// StaleDocuments returns documents not refreshed since the cutoff.
func (s *Store) StaleDocuments(cutoff time.Time) ([]models.Document, error) {
	rows, err := s.db.Query(`SELECT name, size, mod_time, fetched_at FROM documents WHERE fetched_at < ? ORDER BY name ASC`, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []models.Document
	for rows.Next() {
		var d models.Document
		if err := rows.Scan(&d.Name, &d.Size, &d.ModTime, &d.FetchedAt); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}
