package repository

import (
	"context"
	"database/sql"
	"errors"
	"reflect"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/flickfinder/flickfinder/movie"
)

func testRepo(t *testing.T) *Movie {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	db.SetMaxOpenConns(1)

	repo := NewMovie(db, "sqlite")
	if err := repo.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return repo
}

func sampleRecord(id int64, title string) *movie.Record {
	overview := "overview for " + title
	date := "2005-06-15"
	runtime := 140
	rec := &movie.Record{
		ID:               id,
		Title:            title,
		Overview:         &overview,
		Genres:           []string{"Action", "Crime"},
		RuntimeMins:      &runtime,
		ReleaseDate:      &date,
		OriginalLanguage: "en",
		Popularity:       50.0,
	}
	rec.Fingerprint = movie.Fingerprint(*rec)
	return rec
}

func TestUpsertAndGetByID(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	want := sampleRecord(42, "Batman Begins")
	if err := repo.Upsert(ctx, want); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := repo.GetByID(ctx, 42)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip mismatch:\ngot  %+v\nwant %+v", got, want)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	repo := testRepo(t)

	_, err := repo.GetByID(context.Background(), 999)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestUpsertReplacesAllFields(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	first := sampleRecord(7, "Se7en")
	if err := repo.Upsert(ctx, first); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	second := &movie.Record{
		ID:               7,
		Title:            "Seven",
		Genres:           []string{},
		OriginalLanguage: "en",
		Popularity:       12.25,
	}
	second.Fingerprint = movie.Fingerprint(*second)
	if err := repo.Upsert(ctx, second); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	got, err := repo.GetByID(ctx, 7)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if got.Title != "Seven" {
		t.Fatalf("Title = %q, want replaced title", got.Title)
	}
	if got.Overview != nil || got.ReleaseDate != nil || got.RuntimeMins != nil {
		t.Fatalf("replace semantics must clear dropped fields: %+v", got)
	}
	if got.Popularity != 12.25 {
		t.Fatalf("Popularity = %v, want 12.25", got.Popularity)
	}
}

func TestGetByIDsOmitsMissing(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	for _, rec := range []*movie.Record{sampleRecord(3, "Three"), sampleRecord(9, "Nine")} {
		if err := repo.Upsert(ctx, rec); err != nil {
			t.Fatalf("upsert: %v", err)
		}
	}

	got, err := repo.GetByIDs(ctx, []int64{5, 3, 9})
	if err != nil {
		t.Fatalf("get by ids: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2 (missing ID silently omitted)", len(got))
	}
	if _, ok := got[5]; ok {
		t.Fatal("ID 5 must be omitted, not present")
	}
	if got[3].Title != "Three" || got[9].Title != "Nine" {
		t.Fatalf("wrong records: %+v", got)
	}
}

func TestGetByIDsEmptyInput(t *testing.T) {
	repo := testRepo(t)

	got, err := repo.GetByIDs(context.Background(), nil)
	if err != nil {
		t.Fatalf("get by ids: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("len = %d, want 0", len(got))
	}
}

func TestGetFingerprint(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	rec := sampleRecord(42, "Batman Begins")
	if err := repo.Upsert(ctx, rec); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	fp, err := repo.GetFingerprint(ctx, 42)
	if err != nil {
		t.Fatalf("get fingerprint: %v", err)
	}
	if fp != rec.Fingerprint {
		t.Fatalf("fingerprint = %q, want %q", fp, rec.Fingerprint)
	}

	if _, err := repo.GetFingerprint(ctx, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestAllOrderedByID(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	for _, id := range []int64{9, 3, 5} {
		if err := repo.Upsert(ctx, sampleRecord(id, "m")); err != nil {
			t.Fatalf("upsert: %v", err)
		}
	}

	all, err := repo.All(ctx)
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(all) != 3 || all[0].ID != 3 || all[1].ID != 5 || all[2].ID != 9 {
		t.Fatalf("unexpected order: %+v", all)
	}

	n, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 3 {
		t.Fatalf("count = %d, want 3", n)
	}
}

func TestRebindPostgres(t *testing.T) {
	repo := &Movie{driver: "postgres"}
	got := repo.rebind("SELECT * FROM movies WHERE id = ? AND title = ?")
	want := "SELECT * FROM movies WHERE id = $1 AND title = $2"
	if got != want {
		t.Fatalf("rebind = %q, want %q", got, want)
	}
}
