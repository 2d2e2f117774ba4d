package service

import (
	"context"
	"strconv"

	"github.com/flickfinder/flickfinder/cache"
	"github.com/flickfinder/flickfinder/logging/logger"
	"github.com/flickfinder/flickfinder/movie"
)

// Movie serves point lookups with a read-through cache in front of the
// canonical store.
type Movie struct {
	store RecordStore
	cache cache.ICache[movie.Record]
}

// NewMovie creates the movie lookup service.
func NewMovie(store RecordStore, c cache.ICache[movie.Record]) *Movie {
	return &Movie{store: store, cache: c}
}

// Get returns one record by ID. Cache failures degrade to a store read,
// they never fail the lookup. repository.ErrNotFound propagates.
func (m *Movie) Get(ctx context.Context, id int64) (*movie.Record, error) {
	key := strconv.FormatInt(id, 10)

	if m.cache != nil {
		if cached, err := m.cache.Get(ctx, key); err == nil && cached != nil {
			return cached, nil
		} else if err != nil {
			logger.Debugf(ctx, "movie cache read failed for id %d: %v", id, err)
		}
	}

	rec, err := m.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if m.cache != nil {
		if err := m.cache.Set(ctx, key, rec); err != nil {
			logger.Debugf(ctx, "movie cache write failed for id %d: %v", id, err)
		}
	}

	return rec, nil
}
