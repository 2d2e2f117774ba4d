// Package service holds the application services. The search service is
// the query orchestrator: it drives the index for a ranked ID set, the
// canonical store for the full records, and joins the two preserving
// index order.
package service

import (
	"context"

	"github.com/flickfinder/flickfinder/data/search"
	"github.com/flickfinder/flickfinder/movie"
	"github.com/flickfinder/flickfinder/paging"
)

// Searcher is the index surface the orchestrator drives.
type Searcher interface {
	Execute(ctx context.Context, req *movie.SearchRequest) (*search.Result, error)
}

// RecordStore is the canonical store surface the orchestrator reads.
type RecordStore interface {
	GetByID(ctx context.Context, id int64) (*movie.Record, error)
	GetByIDs(ctx context.Context, ids []int64) (map[int64]*movie.Record, error)
}

// ResultPage is the assembled output page. Items keep index rank order
// and may hold fewer records than the page size when the two stores
// have drifted.
type ResultPage struct {
	Items      []*movie.Record `json:"results"`
	Pagination paging.Meta     `json:"pagination"`
}

// Search orchestrates movie search requests.
type Search struct {
	index Searcher
	store RecordStore
}

// NewSearch creates the search service.
func NewSearch(index Searcher, store RecordStore) *Search {
	return &Search{index: index, store: store}
}

// Query runs one search request end to end. The two round-trips are
// strictly sequential: the store fetch needs the index's ID list.
// Index failures and store failures propagate verbatim for the boundary
// to map; drift between the stores is absorbed here, never an error.
func (s *Search) Query(ctx context.Context, req *movie.SearchRequest) (*ResultPage, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	req.Normalize()

	res, err := s.index.Execute(ctx, req)
	if err != nil {
		return nil, err
	}

	meta := paging.BuildMeta(req.Page, req.PageSize, int(res.Total))

	// A page beyond the available results short-circuits without a
	// store round-trip.
	if len(res.IDs) == 0 {
		return &ResultPage{Items: []*movie.Record{}, Pagination: meta}, nil
	}

	records, err := s.store.GetByIDs(ctx, res.IDs)
	if err != nil {
		return nil, err
	}

	// Rebuild items in rank order. IDs the canonical store no longer
	// carries are dropped silently; totals stay authoritative from the
	// index.
	items := make([]*movie.Record, 0, len(res.IDs))
	for _, id := range res.IDs {
		if rec, ok := records[id]; ok {
			items = append(items, rec)
		}
	}

	return &ResultPage{Items: items, Pagination: meta}, nil
}

func validateRequest(req *movie.SearchRequest) error {
	if req.SortField != "" && !movie.ValidSortField(req.SortField) {
		return invalidParam("sort_field", "must be one of popularity, release_date, runtime_mins")
	}
	if req.SortOrder != "" && !movie.ValidSortOrder(req.SortOrder) {
		return invalidParam("sort_order", "must be asc or desc")
	}
	return nil
}
