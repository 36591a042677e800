package ingest

import (
	"context"
	"log"
	"time"

	"github.com/mamaope/legalconsult/internal/llm"
	"github.com/mamaope/legalconsult/internal/metrics"
	"github.com/mamaope/legalconsult/internal/store"
)

// Scheduler runs the periodic maintenance jobs: session retention pruning,
// completion-cache sweeping and corpus refresh.
type Scheduler struct {
	store          *store.Store
	corpus         *CorpusClient
	cache          *llm.Cache
	retention      time.Duration
	pruneInterval  time.Duration
	sweepInterval  time.Duration
	corpusInterval time.Duration
}

func NewScheduler(st *store.Store, corpus *CorpusClient, cache *llm.Cache, retention time.Duration) *Scheduler {
	return &Scheduler{
		store:          st,
		corpus:         corpus,
		cache:          cache,
		retention:      retention,
		pruneInterval:  1 * time.Hour,
		sweepInterval:  10 * time.Minute,
		corpusInterval: 6 * time.Hour,
	}
}

func (s *Scheduler) Run(ctx context.Context) {
	s.pruneSessions()
	s.refreshCorpus()

	pruneTicker := time.NewTicker(s.pruneInterval)
	sweepTicker := time.NewTicker(s.sweepInterval)
	corpusTicker := time.NewTicker(s.corpusInterval)
	defer pruneTicker.Stop()
	defer sweepTicker.Stop()
	defer corpusTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("scheduler: shutting down")
			return
		case <-pruneTicker.C:
			s.pruneSessions()
		case <-sweepTicker.C:
			s.sweepCache()
		case <-corpusTicker.C:
			s.refreshCorpus()
		}
	}
}

// PruneOnce runs a single retention pass, for the one-shot CLI mode.
func (s *Scheduler) PruneOnce() error {
	n, err := s.store.PruneSessions(s.retention)
	if err != nil {
		return err
	}
	log.Printf("prune: removed %d expired sessions", n)
	return nil
}

// IngestOnce runs a single corpus refresh, for the one-shot CLI mode.
func (s *Scheduler) IngestOnce() error {
	if s.corpus == nil {
		log.Println("ingest: no corpus mirror configured")
		return nil
	}
	docs, err := s.corpus.FetchDocuments()
	if err != nil {
		return err
	}
	for _, d := range docs {
		if err := s.store.UpsertDocument(d); err != nil {
			return err
		}
		metrics.DocumentsIngested.Inc()
	}
	log.Printf("ingest: refreshed %d corpus documents", len(docs))
	return nil
}

func (s *Scheduler) pruneSessions() {
	if err := s.PruneOnce(); err != nil {
		log.Printf("prune sessions: %v", err)
	}
}

func (s *Scheduler) sweepCache() {
	if s.cache == nil {
		return
	}
	if dropped := s.cache.Sweep(); dropped > 0 {
		log.Printf("cache: swept %d expired completions", dropped)
	}
}

func (s *Scheduler) refreshCorpus() {
	if s.corpus == nil {
		return
	}
	if err := s.IngestOnce(); err != nil {
		log.Printf("refresh corpus: %v", err)
	}
}
