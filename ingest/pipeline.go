// Package ingest implements the change-detection ingestion pipeline. It
// walks upstream sampling terms, normalizes each raw payload, and
// performs fingerprint-gated upserts into the canonical store and the
// search index independently.
package ingest

import (
	"context"
	"errors"
	"fmt"

	"github.com/flickfinder/flickfinder/data/repository"
	"github.com/flickfinder/flickfinder/logging/logger"
	"github.com/flickfinder/flickfinder/movie"
)

// Source yields batches of raw movie payloads per sampling term.
type Source interface {
	Fetch(ctx context.Context, term string, page int) ([]movie.RawMovie, error)
}

// Store is the canonical store surface the pipeline writes to.
type Store interface {
	GetFingerprint(ctx context.Context, id int64) (string, error)
	Upsert(ctx context.Context, rec *movie.Record) error
}

// Index is the search index surface the pipeline syncs.
type Index interface {
	GetFingerprint(ctx context.Context, id int64) (string, bool, error)
	Index(ctx context.Context, doc movie.Document) error
}

// Stats aggregates the batch outcome. Per-record failures are contained
// and counted; they never abort the run.
type Stats struct {
	Fetched int `json:"fetched"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// Pipeline drives one ingestion batch.
type Pipeline struct {
	source       Source
	store        Store
	index        Index
	terms        string
	pagesPerTerm int
}

// New creates a pipeline over the given collaborators. terms is the set
// of sampling search terms, one batch per rune.
func New(source Source, store Store, index Index, terms string, pagesPerTerm int) *Pipeline {
	if pagesPerTerm < 1 {
		pagesPerTerm = 1
	}
	return &Pipeline{
		source:       source,
		store:        store,
		index:        index,
		terms:        terms,
		pagesPerTerm: pagesPerTerm,
	}
}

// Run executes the batch to completion or until the context is
// cancelled. Cancellation is honored between records, never mid-record.
// The returned stats are valid even when Run returns the context error.
func (p *Pipeline) Run(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	for _, term := range p.terms {
		for page := 1; page <= p.pagesPerTerm; page++ {
			if err := ctx.Err(); err != nil {
				return stats, err
			}

			batch, err := p.source.Fetch(ctx, string(term), page)
			if err != nil {
				if ctx.Err() != nil {
					return stats, ctx.Err()
				}
				logger.Warnf(ctx, "ingest: fetch failed for term %q page %d: %v", string(term), page, err)
				stats.Failed++
				continue
			}

			for _, raw := range batch {
				if err := ctx.Err(); err != nil {
					return stats, err
				}

				stats.Fetched++
				updated, err := p.processRecord(ctx, raw)
				if err != nil {
					logger.Warnf(ctx, "ingest: record failed: %v", err)
					stats.Failed++
					continue
				}
				if updated {
					stats.Updated++
				} else {
					stats.Skipped++
				}
			}
		}
	}

	logger.Infof(ctx, "ingest: batch complete: fetched=%d updated=%d skipped=%d failed=%d",
		stats.Fetched, stats.Updated, stats.Skipped, stats.Failed)
	return stats, nil
}

// processRecord normalizes one payload and performs the fingerprint
// comparison against both stores. It reports whether any write
// happened.
func (p *Pipeline) processRecord(ctx context.Context, raw movie.RawMovie) (bool, error) {
	rec := movie.Normalize(raw)
	if rec.ID == 0 {
		return false, fmt.Errorf("record has no usable id: %v", raw["id"])
	}
	rec.Fingerprint = movie.Fingerprint(rec)

	storeUpdated, err := p.syncStore(ctx, &rec)
	if err != nil {
		return false, err
	}

	indexUpdated, err := p.syncIndex(ctx, rec)
	if err != nil {
		return false, err
	}

	return storeUpdated || indexUpdated, nil
}

// syncStore upserts into the canonical store unless the stored
// fingerprint already matches.
func (p *Pipeline) syncStore(ctx context.Context, rec *movie.Record) (bool, error) {
	stored, err := p.store.GetFingerprint(ctx, rec.ID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return false, err
	}
	if err == nil && stored == rec.Fingerprint {
		return false, nil
	}

	if err := p.store.Upsert(ctx, rec); err != nil {
		return false, err
	}
	return true, nil
}

// syncIndex re-indexes the document unless the indexed fingerprint
// already matches. The comparison runs independently of the store sync,
// so a drifted index converges even when the store was already current.
func (p *Pipeline) syncIndex(ctx context.Context, rec movie.Record) (bool, error) {
	indexed, found, err := p.index.GetFingerprint(ctx, rec.ID)
	if err != nil {
		return false, err
	}
	if found && indexed == rec.Fingerprint {
		return false, nil
	}

	if err := p.index.Index(ctx, rec.Document()); err != nil {
		return false, err
	}
	return true, nil
}
