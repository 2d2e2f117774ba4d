package search

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/flickfinder/flickfinder/movie"
)

// BuildQuery translates a search request into the Elasticsearch/OpenSearch
// query DSL. The construction rules:
//
//  1. Free text becomes a must multi_match over title (boosted) and
//     overview; with no text and no filters the query degrades to
//     match_all.
//  2. Genre and language filters are exact-term clauses against the
//     non-analyzed field variants. Values within one filter are
//     OR-combined, distinct filter types AND-combined.
//  3. A popularity range clause carries only the supplied bounds.
//  4. page/page_size translate to from/size.
//  5. Sorting is a single-field sort; ties are left to the index's
//     internal order.
func BuildQuery(req *movie.SearchRequest) (string, error) {
	body := map[string]any{
		"query":            buildQueryClause(req),
		"from":             (req.Page - 1) * req.PageSize,
		"size":             req.PageSize,
		"sort":             []any{map[string]any{string(req.SortField): map[string]any{"order": string(req.SortOrder)}}},
		"track_total_hits": true,
	}

	b, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to build search query: %w", err)
	}
	return string(b), nil
}

func buildQueryClause(req *movie.SearchRequest) map[string]any {
	text := strings.TrimSpace(req.Text)
	filters := buildFilterClauses(req)

	if text == "" && len(filters) == 0 {
		return map[string]any{"match_all": map[string]any{}}
	}

	boolClause := map[string]any{}
	if text != "" {
		boolClause["must"] = map[string]any{
			"multi_match": map[string]any{
				"query":  text,
				"fields": []string{"title^2", "overview"},
			},
		}
	}
	if len(filters) > 0 {
		boolClause["filter"] = filters
	}

	return map[string]any{"bool": boolClause}
}

func buildFilterClauses(req *movie.SearchRequest) []any {
	var filters []any

	if len(req.GenreFilters) > 0 {
		filters = append(filters, map[string]any{
			"terms": map[string]any{"genres.keyword": req.GenreFilters},
		})
	}
	if len(req.LanguageFilters) > 0 {
		filters = append(filters, map[string]any{
			"terms": map[string]any{"original_language": req.LanguageFilters},
		})
	}
	if req.MinPopularity != nil || req.MaxPopularity != nil {
		bounds := map[string]any{}
		if req.MinPopularity != nil {
			bounds["gte"] = *req.MinPopularity
		}
		if req.MaxPopularity != nil {
			bounds["lte"] = *req.MaxPopularity
		}
		filters = append(filters, map[string]any{
			"range": map[string]any{"popularity": bounds},
		})
	}

	return filters
}

// buildMeiliFilter expresses the same filter clauses in Meilisearch
// filter syntax.
func buildMeiliFilter(req *movie.SearchRequest) string {
	var parts []string

	if len(req.GenreFilters) > 0 {
		ors := make([]string, len(req.GenreFilters))
		for i, g := range req.GenreFilters {
			ors[i] = fmt.Sprintf("genres = %q", g)
		}
		parts = append(parts, "("+strings.Join(ors, " OR ")+")")
	}
	if len(req.LanguageFilters) > 0 {
		ors := make([]string, len(req.LanguageFilters))
		for i, l := range req.LanguageFilters {
			ors[i] = fmt.Sprintf("original_language = %q", l)
		}
		parts = append(parts, "("+strings.Join(ors, " OR ")+")")
	}
	if req.MinPopularity != nil {
		parts = append(parts, fmt.Sprintf("popularity >= %v", *req.MinPopularity))
	}
	if req.MaxPopularity != nil {
		parts = append(parts, fmt.Sprintf("popularity <= %v", *req.MaxPopularity))
	}

	return strings.Join(parts, " AND ")
}
