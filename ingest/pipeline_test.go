package ingest

import (
	"context"
	"errors"
	"testing"

	"github.com/flickfinder/flickfinder/data/repository"
	"github.com/flickfinder/flickfinder/movie"
)

type fakeSource struct {
	batches map[string][]movie.RawMovie
	err     error
}

func (f *fakeSource) Fetch(ctx context.Context, term string, page int) ([]movie.RawMovie, error) {
	if f.err != nil {
		return nil, f.err
	}
	if page > 1 {
		return nil, nil
	}
	return f.batches[term], nil
}

type fakeStore struct {
	fingerprints map[int64]string
	upserts      int
	failOn       int64
}

func (f *fakeStore) GetFingerprint(ctx context.Context, id int64) (string, error) {
	fp, ok := f.fingerprints[id]
	if !ok {
		return "", repository.ErrNotFound
	}
	return fp, nil
}

func (f *fakeStore) Upsert(ctx context.Context, rec *movie.Record) error {
	if f.failOn != 0 && rec.ID == f.failOn {
		return errors.New("disk full")
	}
	f.upserts++
	f.fingerprints[rec.ID] = rec.Fingerprint
	return nil
}

type fakeIndex struct {
	fingerprints map[int64]string
	indexed      int
}

func (f *fakeIndex) GetFingerprint(ctx context.Context, id int64) (string, bool, error) {
	fp, ok := f.fingerprints[id]
	return fp, ok, nil
}

func (f *fakeIndex) Index(ctx context.Context, doc movie.Document) error {
	f.indexed++
	f.fingerprints[doc.ID] = doc.Fingerprint
	return nil
}

func newFakes(batches map[string][]movie.RawMovie) (*fakeSource, *fakeStore, *fakeIndex) {
	return &fakeSource{batches: batches},
		&fakeStore{fingerprints: make(map[int64]string)},
		&fakeIndex{fingerprints: make(map[int64]string)}
}

func rawMovie(id int64, title string) movie.RawMovie {
	return movie.RawMovie{
		"id":                float64(id),
		"title":             title,
		"original_language": "en",
		"popularity":        10.0,
	}
}

func TestRunFirstPassWritesBothStores(t *testing.T) {
	source, store, index := newFakes(map[string][]movie.RawMovie{
		"a": {rawMovie(1, "Alien"), rawMovie(2, "Amadeus")},
	})

	stats, err := New(source, store, index, "a", 1).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if stats.Fetched != 2 || stats.Updated != 2 || stats.Skipped != 0 || stats.Failed != 0 {
		t.Fatalf("stats = %+v", stats)
	}
	if store.upserts != 2 || index.indexed != 2 {
		t.Fatalf("writes: store %d index %d, want 2 and 2", store.upserts, index.indexed)
	}
	if store.fingerprints[1] != index.fingerprints[1] {
		t.Fatal("both stores must converge to the same fingerprint")
	}
}

func TestRunSkipsUnchanged(t *testing.T) {
	batches := map[string][]movie.RawMovie{"a": {rawMovie(1, "Alien")}}

	source, store, index := newFakes(batches)
	p := New(source, store, index, "a", 1)

	if _, err := p.Run(context.Background()); err != nil {
		t.Fatalf("first run: %v", err)
	}

	// Re-running on unchanged upstream data must produce zero writes.
	stats, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if stats.Skipped != 1 || stats.Updated != 0 {
		t.Fatalf("stats = %+v, want one skip", stats)
	}
	if store.upserts != 1 || index.indexed != 1 {
		t.Fatalf("writes after rerun: store %d index %d, want unchanged", store.upserts, index.indexed)
	}
}

func TestRunReindexesDriftedIndex(t *testing.T) {
	source, store, index := newFakes(map[string][]movie.RawMovie{"a": {rawMovie(1, "Alien")}})
	p := New(source, store, index, "a", 1)

	if _, err := p.Run(context.Background()); err != nil {
		t.Fatalf("first run: %v", err)
	}

	// Simulate index drift: the store is current but the index is stale.
	index.fingerprints[1] = "stale"

	stats, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if stats.Updated != 1 {
		t.Fatalf("stats = %+v, want drifted record re-indexed", stats)
	}
	if store.upserts != 1 {
		t.Fatalf("store upserts = %d, store must not be rewritten", store.upserts)
	}
	if index.indexed != 2 {
		t.Fatalf("index writes = %d, want re-index", index.indexed)
	}
}

func TestRunContainsRecordFailures(t *testing.T) {
	source, store, index := newFakes(map[string][]movie.RawMovie{
		"a": {rawMovie(1, "Alien"), {"title": "no id"}, rawMovie(3, "Arrival")},
	})
	store.failOn = 3

	stats, err := New(source, store, index, "a", 1).Run(context.Background())
	if err != nil {
		t.Fatalf("run must not abort on record failures: %v", err)
	}

	if stats.Fetched != 3 || stats.Updated != 1 || stats.Failed != 2 {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestRunFetchFailureContinues(t *testing.T) {
	source, store, index := newFakes(nil)
	source.err = errors.New("upstream down")

	stats, err := New(source, store, index, "ab", 1).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if stats.Failed != 2 {
		t.Fatalf("stats = %+v, want one failure per term", stats)
	}
}

func TestRunHonorsCancellation(t *testing.T) {
	source, store, index := newFakes(map[string][]movie.RawMovie{"a": {rawMovie(1, "Alien")}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stats, err := New(source, store, index, "a", 1).Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if stats == nil {
		t.Fatal("stats must be returned even on cancellation")
	}
}
