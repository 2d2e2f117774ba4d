package movie

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Fingerprint computes a stable content digest over the nine content
// fields of the record, excluding the fingerprint itself. The fields are
// serialized key-sorted, so the digest is invariant under any insertion
// order of the source payload and changes whenever any single field
// value changes.
func Fingerprint(r Record) string {
	content := map[string]any{
		"id":                r.ID,
		"title":             r.Title,
		"overview":          r.Overview,
		"genres":            r.Genres,
		"runtime_mins":      r.RuntimeMins,
		"release_date":      r.ReleaseDate,
		"original_language": r.OriginalLanguage,
		"poster_path":       r.PosterPath,
		"popularity":        r.Popularity,
	}

	// encoding/json marshals map keys in sorted order, which gives the
	// canonical serialization the digest requires.
	b, _ := json.Marshal(content)
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
