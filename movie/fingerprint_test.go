package movie

import "testing"

func TestFingerprintStable(t *testing.T) {
	// Two raw payloads with identical values but different key insertion
	// order must produce the same digest.
	a := Normalize(RawMovie{
		"id":                float64(42),
		"title":             "Batman Begins",
		"popularity":        50.0,
		"original_language": "en",
	})
	b := Normalize(RawMovie{
		"original_language": "en",
		"popularity":        50.0,
		"title":             "Batman Begins",
		"id":                float64(42),
	})

	fa, fb := Fingerprint(a), Fingerprint(b)
	if fa != fb {
		t.Fatalf("digest depends on input order: %s != %s", fa, fb)
	}
	if len(fa) != 64 {
		t.Fatalf("digest length = %d, want 64 hex chars", len(fa))
	}
}

func TestFingerprintChangesOnFieldChange(t *testing.T) {
	base := Normalize(rawSample())
	changed := base
	changed.Popularity = base.Popularity + 1

	if Fingerprint(base) == Fingerprint(changed) {
		t.Fatal("digest did not change when popularity changed")
	}

	retitled := base
	retitled.Title = "The Matrix Reloaded"
	if Fingerprint(base) == Fingerprint(retitled) {
		t.Fatal("digest did not change when title changed")
	}
}

func TestFingerprintExcludedFromItself(t *testing.T) {
	r := Normalize(rawSample())
	r.Fingerprint = ""
	without := Fingerprint(r)
	r.Fingerprint = "deadbeef"
	with := Fingerprint(r)
	if without != with {
		t.Fatal("stored fingerprint must not participate in the digest")
	}
}

func TestSearchRequestNormalize(t *testing.T) {
	r := SearchRequest{Page: 0, PageSize: 0}
	r.Normalize()
	if r.Page != 1 || r.PageSize != 20 {
		t.Fatalf("defaults: page %d size %d", r.Page, r.PageSize)
	}
	if r.SortField != SortByPopularity || r.SortOrder != SortDesc {
		t.Fatalf("sort defaults: %s %s", r.SortField, r.SortOrder)
	}

	r = SearchRequest{Page: 2, PageSize: 1000}
	r.Normalize()
	if r.PageSize != 100 {
		t.Fatalf("PageSize = %d, want clamped to 100", r.PageSize)
	}
}
