package movie

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// RawMovie is a loosely typed upstream payload. Field coercion never
// fails: unparsable values become null or their zero default.
type RawMovie map[string]any

// Normalize shapes a raw upstream payload into a canonical Record.
// Each field is coerced independently, so a single bad field never
// discards the rest of the record.
func Normalize(raw RawMovie) Record {
	r := Record{
		ID:               coerceInt64(raw["id"]),
		Title:            coerceString(raw["title"]),
		Overview:         coerceNullString(raw["overview"]),
		Genres:           coerceGenres(raw["genres"]),
		RuntimeMins:      coerceNullInt(raw["runtime"]),
		ReleaseDate:      coerceDate(raw["release_date"]),
		OriginalLanguage: coerceString(raw["original_language"]),
		PosterPath:       coerceNullString(raw["poster_path"]),
		Popularity:       coerceFloat(raw["popularity"]),
	}
	if r.Genres == nil {
		r.Genres = []string{}
	}
	return r
}

func coerceString(v any) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case nil:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

func coerceNullString(v any) *string {
	s := coerceString(v)
	if s == "" {
		return nil
	}
	return &s
}

func coerceInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return 0
		}
		return i
	default:
		return 0
	}
}

func coerceNullInt(v any) *int {
	switch n := v.(type) {
	case int:
		return &n
	case int64:
		i := int(n)
		return &i
	case float64:
		i := int(n)
		return &i
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return nil
		}
		return &i
	default:
		return nil
	}
}

func coerceFloat(v any) float64 {
	switch f := v.(type) {
	case float64:
		return f
	case float32:
		return float64(f)
	case int:
		return float64(f)
	case int64:
		return float64(f)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return 0.0
		}
		return parsed
	default:
		return 0.0
	}
}

// coerceDate accepts only a strict YYYY-MM-DD value. Partial dates and
// free text become null.
func coerceDate(v any) *string {
	s := coerceString(v)
	if s == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return nil
	}
	return &s
}

// coerceGenres accepts either a list of names or a list of objects
// carrying a name field, which is how the upstream API returns genres
// on detail payloads.
func coerceGenres(v any) []string {
	items, ok := v.([]any)
	if !ok {
		if names, ok := v.([]string); ok {
			out := make([]string, 0, len(names))
			for _, n := range names {
				if n = strings.TrimSpace(n); n != "" {
					out = append(out, n)
				}
			}
			return out
		}
		return []string{}
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		switch g := item.(type) {
		case string:
			if s := strings.TrimSpace(g); s != "" {
				out = append(out, s)
			}
		case map[string]any:
			if s := coerceString(g["name"]); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}
