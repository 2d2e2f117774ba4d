package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/flickfinder/flickfinder/data/repository"
	"github.com/flickfinder/flickfinder/movie"
)

type stubSource struct {
	mu      sync.Mutex
	block   chan struct{}
	batches []movie.RawMovie
}

func (s *stubSource) Fetch(ctx context.Context, term string, page int) ([]movie.RawMovie, error) {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.batches, nil
}

type stubStore struct {
	mu           sync.Mutex
	fingerprints map[int64]string
	records      []*movie.Record
}

func (s *stubStore) GetFingerprint(ctx context.Context, id int64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fp, ok := s.fingerprints[id]
	if !ok {
		return "", repository.ErrNotFound
	}
	return fp, nil
}

func (s *stubStore) Upsert(ctx context.Context, rec *movie.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fingerprints[rec.ID] = rec.Fingerprint
	return nil
}

func (s *stubStore) All(ctx context.Context) ([]*movie.Record, error) {
	return s.records, nil
}

type stubIndexAdmin struct {
	mu           sync.Mutex
	fingerprints map[int64]string
	dropped      bool
	ensured      bool
	indexed      int
}

func (s *stubIndexAdmin) GetFingerprint(ctx context.Context, id int64) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fp, ok := s.fingerprints[id]
	return fp, ok, nil
}

func (s *stubIndexAdmin) Index(ctx context.Context, doc movie.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fingerprints[doc.ID] = doc.Fingerprint
	s.indexed++
	return nil
}

func (s *stubIndexAdmin) DeleteIndex(ctx context.Context) error {
	s.dropped = true
	return nil
}

func (s *stubIndexAdmin) EnsureIndex(ctx context.Context) error {
	s.ensured = true
	return nil
}

func newIngestService(source *stubSource) (*Ingest, *stubStore, *stubIndexAdmin) {
	store := &stubStore{fingerprints: make(map[int64]string)}
	index := &stubIndexAdmin{fingerprints: make(map[int64]string)}
	return NewIngest(source, store, index, "a", 1), store, index
}

func TestIngestRunRecordsStatus(t *testing.T) {
	source := &stubSource{batches: []movie.RawMovie{{"id": float64(1), "title": "Alien"}}}
	svc, store, index := newIngestService(source)

	stats, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if stats.Updated != 1 {
		t.Fatalf("stats = %+v", stats)
	}
	if len(store.fingerprints) != 1 || index.indexed != 1 {
		t.Fatal("both stores must be written")
	}

	status := svc.Status()
	if status.Running || status.LastRun == nil || status.LastStats.Updated != 1 {
		t.Fatalf("status = %+v", status)
	}
}

func TestIngestSingleFlight(t *testing.T) {
	source := &stubSource{block: make(chan struct{})}
	svc, _, _ := newIngestService(source)

	if err := svc.Trigger(context.Background()); err != nil {
		t.Fatalf("trigger: %v", err)
	}

	if _, err := svc.Run(context.Background()); !errors.Is(err, ErrIngestRunning) {
		t.Fatalf("err = %v, want ErrIngestRunning", err)
	}
	if err := svc.Trigger(context.Background()); !errors.Is(err, ErrIngestRunning) {
		t.Fatalf("err = %v, want ErrIngestRunning", err)
	}

	close(source.block)
}

func TestReindexRebuildsFromStore(t *testing.T) {
	source := &stubSource{}
	svc, store, index := newIngestService(source)

	for _, id := range []int64{1, 2, 3} {
		rec := &movie.Record{ID: id, Title: "m", Genres: []string{}, OriginalLanguage: "en"}
		rec.Fingerprint = movie.Fingerprint(*rec)
		store.records = append(store.records, rec)
	}

	n, err := svc.Reindex(context.Background())
	if err != nil {
		t.Fatalf("reindex: %v", err)
	}
	if n != 3 {
		t.Fatalf("indexed = %d, want 3", n)
	}
	if !index.dropped || !index.ensured {
		t.Fatal("reindex must drop and recreate the index first")
	}
}
