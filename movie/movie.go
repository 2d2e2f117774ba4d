// Package movie defines the canonical movie record and the pure functions
// that shape raw upstream metadata into it.
package movie

// Record is the canonical movie entity shared by the relational store and
// the search index. The same id identifies the movie in both.
type Record struct {
	ID               int64    `json:"id"`
	Title            string   `json:"title"`
	Overview         *string  `json:"overview"`
	Genres           []string `json:"genres"`
	RuntimeMins      *int     `json:"runtime_mins"`
	ReleaseDate      *string  `json:"release_date"`
	OriginalLanguage string   `json:"original_language"`
	PosterPath       *string  `json:"poster_path"`
	Popularity       float64  `json:"popularity"`

	// Fingerprint is used only for change detection and is never
	// serialized toward clients.
	Fingerprint string `json:"-"`
}

// Document is the search index projection of a Record. Unlike the client
// representation it carries the fingerprint so the sync path can compare
// against it without a round-trip to the relational store.
type Document struct {
	ID               int64    `json:"id"`
	Title            string   `json:"title"`
	Overview         *string  `json:"overview"`
	Genres           []string `json:"genres"`
	RuntimeMins      *int     `json:"runtime_mins"`
	ReleaseDate      *string  `json:"release_date"`
	OriginalLanguage string   `json:"original_language"`
	PosterPath       *string  `json:"poster_path"`
	Popularity       float64  `json:"popularity"`
	Fingerprint      string   `json:"fingerprint"`
}

// Document returns the index projection of the record.
func (r Record) Document() Document {
	return Document{
		ID:               r.ID,
		Title:            r.Title,
		Overview:         r.Overview,
		Genres:           r.Genres,
		RuntimeMins:      r.RuntimeMins,
		ReleaseDate:      r.ReleaseDate,
		OriginalLanguage: r.OriginalLanguage,
		PosterPath:       r.PosterPath,
		Popularity:       r.Popularity,
		Fingerprint:      r.Fingerprint,
	}
}
