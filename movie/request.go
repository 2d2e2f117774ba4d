package movie

// SortField enumerates the sortable record fields.
type SortField string

// SortOrder enumerates sort directions.
type SortOrder string

const (
	SortByPopularity  SortField = "popularity"
	SortByReleaseDate SortField = "release_date"
	SortByRuntime     SortField = "runtime_mins"

	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ValidSortField reports whether f is one of the sortable fields.
func ValidSortField(f SortField) bool {
	switch f {
	case SortByPopularity, SortByReleaseDate, SortByRuntime:
		return true
	}
	return false
}

// ValidSortOrder reports whether o is a known direction.
func ValidSortOrder(o SortOrder) bool {
	return o == SortAsc || o == SortDesc
}

// SearchRequest is the structured query a caller submits. Filters within
// one field are OR-combined; distinct filter types are AND-combined.
type SearchRequest struct {
	Text            string
	GenreFilters    []string
	LanguageFilters []string
	MinPopularity   *float64
	MaxPopularity   *float64
	SortField       SortField
	SortOrder       SortOrder
	Page            int
	PageSize        int
}

// Normalize clamps pagination into range and fills sort defaults.
// An inverted popularity range is left as supplied: it legitimately
// yields zero results rather than an error.
func (r *SearchRequest) Normalize() {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.PageSize < 1 {
		r.PageSize = 20
	}
	if r.PageSize > 100 {
		r.PageSize = 100
	}
	if r.SortField == "" {
		r.SortField = SortByPopularity
	}
	if r.SortOrder == "" {
		r.SortOrder = SortDesc
	}
}
