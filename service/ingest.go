package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/flickfinder/flickfinder/ingest"
	"github.com/flickfinder/flickfinder/logging/logger"
	"github.com/flickfinder/flickfinder/movie"
)

// ErrIngestRunning reports that a batch is already in flight.
var ErrIngestRunning = errors.New("ingestion already running")

// IndexAdmin is the index surface the reindex path needs beyond the
// pipeline's own.
type IndexAdmin interface {
	ingest.Index
	DeleteIndex(ctx context.Context) error
	EnsureIndex(ctx context.Context) error
}

// AllStore extends the pipeline store surface with a full scan, used to
// rebuild the index from canonical records.
type AllStore interface {
	ingest.Store
	All(ctx context.Context) ([]*movie.Record, error)
}

// IngestStatus reports the state of the last batch.
type IngestStatus struct {
	Running   bool          `json:"running"`
	LastRun   *time.Time    `json:"last_run"`
	LastStats *ingest.Stats `json:"last_stats"`
	LastError string        `json:"last_error,omitempty"`
}

// Ingest runs ingestion batches, one at a time.
type Ingest struct {
	source ingest.Source
	store  AllStore
	index  IndexAdmin

	terms        string
	pagesPerTerm int

	mu        sync.Mutex
	running   bool
	lastRun   *time.Time
	lastStats *ingest.Stats
	lastError string
}

// NewIngest creates the ingestion service.
func NewIngest(source ingest.Source, store AllStore, index IndexAdmin, terms string, pagesPerTerm int) *Ingest {
	return &Ingest{
		source:       source,
		store:        store,
		index:        index,
		terms:        terms,
		pagesPerTerm: pagesPerTerm,
	}
}

// acquire claims the single batch slot.
func (s *Ingest) acquire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return false
	}
	s.running = true
	return true
}

// Run executes one batch synchronously. Only one batch may run at a
// time; a second caller gets ErrIngestRunning.
func (s *Ingest) Run(ctx context.Context) (*ingest.Stats, error) {
	if !s.acquire() {
		return nil, ErrIngestRunning
	}
	return s.run(ctx)
}

// Trigger starts a batch in the background. It returns ErrIngestRunning
// when one is already in flight.
func (s *Ingest) Trigger(ctx context.Context) error {
	if !s.acquire() {
		return ErrIngestRunning
	}

	go func() {
		// The batch outlives the triggering request.
		if _, err := s.run(context.WithoutCancel(ctx)); err != nil {
			logger.Errorf(ctx, "background ingest failed: %v", err)
		}
	}()

	return nil
}

// run assumes the batch slot is held and releases it on completion.
func (s *Ingest) run(ctx context.Context) (*ingest.Stats, error) {
	pipeline := ingest.New(s.source, s.store, s.index, s.terms, s.pagesPerTerm)
	stats, err := pipeline.Run(ctx)

	now := time.Now()
	s.mu.Lock()
	s.running = false
	s.lastRun = &now
	s.lastStats = stats
	if err != nil {
		s.lastError = err.Error()
	} else {
		s.lastError = ""
	}
	s.mu.Unlock()

	return stats, err
}

// Status reports the current and last-batch state.
func (s *Ingest) Status() IngestStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return IngestStatus{
		Running:   s.running,
		LastRun:   s.lastRun,
		LastStats: s.lastStats,
		LastError: s.lastError,
	}
}

// Reindex rebuilds the search index from the canonical store: drop,
// recreate with the mapping, then index every record. Per-record
// failures are logged and skipped, matching the pipeline's containment
// policy.
func (s *Ingest) Reindex(ctx context.Context) (int, error) {
	if err := s.index.DeleteIndex(ctx); err != nil {
		return 0, err
	}
	if err := s.index.EnsureIndex(ctx); err != nil {
		return 0, err
	}

	records, err := s.store.All(ctx)
	if err != nil {
		return 0, err
	}

	indexed := 0
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return indexed, err
		}
		if err := s.index.Index(ctx, rec.Document()); err != nil {
			logger.Warnf(ctx, "reindex: failed to index movie %d: %v", rec.ID, err)
			continue
		}
		indexed++
	}

	logger.Infof(ctx, "reindex complete: %d of %d records indexed", indexed, len(records))
	return indexed, nil
}
