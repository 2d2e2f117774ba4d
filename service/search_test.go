package service

import (
	"context"
	"errors"
	"testing"

	"github.com/flickfinder/flickfinder/data/repository"
	"github.com/flickfinder/flickfinder/data/search"
	"github.com/flickfinder/flickfinder/movie"
)

type fakeIndex struct {
	ids   []int64
	total int64
	err   error

	gotReq *movie.SearchRequest
}

func (f *fakeIndex) Execute(ctx context.Context, req *movie.SearchRequest) (*search.Result, error) {
	f.gotReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &search.Result{IDs: f.ids, Total: f.total}, nil
}

type fakeStore struct {
	records map[int64]*movie.Record
	err     error
	calls   int
}

func (f *fakeStore) GetByID(ctx context.Context, id int64) (*movie.Record, error) {
	rec, ok := f.records[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return rec, nil
}

func (f *fakeStore) GetByIDs(ctx context.Context, ids []int64) (map[int64]*movie.Record, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[int64]*movie.Record)
	for _, id := range ids {
		if rec, ok := f.records[id]; ok {
			out[id] = rec
		}
	}
	return out, nil
}

func record(id int64, title string) *movie.Record {
	return &movie.Record{ID: id, Title: title, Genres: []string{}, OriginalLanguage: "en"}
}

func TestQueryPreservesRankOrderAndDropsDrift(t *testing.T) {
	index := &fakeIndex{ids: []int64{5, 3, 9}, total: 3}
	store := &fakeStore{records: map[int64]*movie.Record{
		3: record(3, "Three"),
		9: record(9, "Nine"),
	}}

	page, err := NewSearch(index, store).Query(context.Background(), &movie.SearchRequest{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}

	if len(page.Items) != 2 || page.Items[0].ID != 3 || page.Items[1].ID != 9 {
		t.Fatalf("items = %+v, want [3 9] in rank order with 5 dropped", page.Items)
	}
	if page.Pagination.TotalResults != 3 {
		t.Fatalf("total_results = %d, drift must not alter the index total", page.Pagination.TotalResults)
	}
}

func TestQueryEmptyShortCircuit(t *testing.T) {
	index := &fakeIndex{ids: nil, total: 0}
	store := &fakeStore{records: map[int64]*movie.Record{}}

	page, err := NewSearch(index, store).Query(context.Background(), &movie.SearchRequest{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}

	if len(page.Items) != 0 {
		t.Fatalf("items = %+v, want empty", page.Items)
	}
	if page.Pagination.TotalPages != 0 || page.Pagination.HasNext || page.Pagination.HasPrevious {
		t.Fatalf("pagination = %+v, want zeroed", page.Pagination)
	}
	if store.calls != 0 {
		t.Fatal("empty ID set must skip the store round-trip")
	}
}

func TestQueryPageBeyondResults(t *testing.T) {
	// The index reports matches but this page is past the end: no IDs,
	// yet the total stays authoritative.
	index := &fakeIndex{ids: nil, total: 41}
	store := &fakeStore{records: map[int64]*movie.Record{}}

	page, err := NewSearch(index, store).Query(context.Background(), &movie.SearchRequest{Page: 9, PageSize: 20})
	if err != nil {
		t.Fatalf("query: %v", err)
	}

	if len(page.Items) != 0 {
		t.Fatalf("items = %+v, want empty", page.Items)
	}
	if page.Pagination.TotalResults != 41 || page.Pagination.TotalPages != 3 {
		t.Fatalf("pagination = %+v, want totals from the index", page.Pagination)
	}
	if store.calls != 0 {
		t.Fatal("empty ID set must skip the store round-trip")
	}
}

func TestQueryClampsPagination(t *testing.T) {
	index := &fakeIndex{ids: nil, total: 0}
	store := &fakeStore{}

	_, err := NewSearch(index, store).Query(context.Background(), &movie.SearchRequest{Page: -2, PageSize: 5000})
	if err != nil {
		t.Fatalf("query: %v", err)
	}

	if index.gotReq.Page != 1 || index.gotReq.PageSize != 100 {
		t.Fatalf("request reaching the index = page %d size %d, want clamped", index.gotReq.Page, index.gotReq.PageSize)
	}
}

func TestQueryInvalidSortField(t *testing.T) {
	index := &fakeIndex{}
	store := &fakeStore{}

	_, err := NewSearch(index, store).Query(context.Background(), &movie.SearchRequest{SortField: "vibes"})

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if index.gotReq != nil {
		t.Fatal("validation must reject before any external call")
	}
}

func TestQueryPropagatesSearchUnavailable(t *testing.T) {
	index := &fakeIndex{err: search.ErrUnavailable}
	store := &fakeStore{}

	_, err := NewSearch(index, store).Query(context.Background(), &movie.SearchRequest{})
	if !errors.Is(err, search.ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable to propagate verbatim", err)
	}
}

func TestQueryPropagatesStorageError(t *testing.T) {
	index := &fakeIndex{ids: []int64{1}, total: 1}
	store := &fakeStore{err: &repository.StorageError{Op: "get by ids", Err: errors.New("connection reset")}}

	_, err := NewSearch(index, store).Query(context.Background(), &movie.SearchRequest{})

	var serr *repository.StorageError
	if !errors.As(err, &serr) {
		t.Fatalf("err = %v, want StorageError to propagate verbatim", err)
	}
}

func TestQueryEndToEnd(t *testing.T) {
	index := &fakeIndex{ids: []int64{42}, total: 1}
	store := &fakeStore{records: map[int64]*movie.Record{
		42: record(42, "Batman Begins"),
	}}

	page, err := NewSearch(index, store).Query(context.Background(), &movie.SearchRequest{
		Text:     "Batman",
		Page:     1,
		PageSize: 20,
	})
	if err != nil {
		t.Fatalf("query: %v", err)
	}

	if len(page.Items) != 1 || page.Items[0].ID != 42 || page.Items[0].Title != "Batman Begins" {
		t.Fatalf("items = %+v", page.Items)
	}

	p := page.Pagination
	if p.Page != 1 || p.Size != 20 || p.TotalResults != 1 || p.TotalPages != 1 || p.HasNext || p.HasPrevious {
		t.Fatalf("pagination = %+v", p)
	}
}
