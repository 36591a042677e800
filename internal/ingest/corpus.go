// Package ingest keeps the reference corpus and stored sessions fresh: it
// pulls document listings from the corpus mirror and runs the periodic
// maintenance jobs.
package ingest

import (
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jlaffaye/ftp"

	"github.com/mamaope/legalconsult/internal/models"
)

const ftpTimeout = 30 * time.Second

// CorpusClient lists reference documents on the corpus FTP mirror.
type CorpusClient struct {
	host string
	path string
}

func NewCorpusClient(host, path string) *CorpusClient {
	if path == "" {
		path = "/"
	}
	return &CorpusClient{host: host, path: path}
}

// FetchDocuments lists the corpus directory, retrying transient failures.
func (c *CorpusClient) FetchDocuments() ([]models.Document, error) {
	var entries []*ftp.Entry
	operation := func() error {
		conn, err := ftp.Dial(c.host, ftp.DialWithTimeout(ftpTimeout))
		if err != nil {
			return fmt.Errorf("ftp dial: %w", err)
		}
		defer conn.Quit()

		if err := conn.Login("anonymous", "anonymous"); err != nil {
			return backoff.Permanent(fmt.Errorf("ftp login: %w", err))
		}

		entries, err = conn.List(c.path)
		if err != nil {
			return fmt.Errorf("ftp list: %w", err)
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 2 * time.Minute
	if err := backoff.Retry(operation, bo); err != nil {
		return nil, err
	}

	fetchedAt := time.Now().UTC()
	var docs []models.Document
	for _, e := range entries {
		if e.Type != ftp.EntryTypeFile {
			continue
		}
		docs = append(docs, models.Document{
			Name:      e.Name,
			Size:      int64(e.Size),
			ModTime:   e.Time,
			FetchedAt: fetchedAt,
		})
	}
	return docs, nil
}
