// Package repository implements the canonical movie store on top of
// database/sql. It works against SQLite, PostgreSQL and MySQL through
// the registered database drivers.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/flickfinder/flickfinder/movie"
)

const movieColumns = "id, title, overview, genres, runtime_mins, release_date, original_language, poster_path, popularity, fingerprint"

// schema holds one table: the MovieRecord fields plus the fingerprint.
// popularity is stored as string-formatted text and treated as numeric
// everywhere else.
const schema = `
CREATE TABLE IF NOT EXISTS movies (
	id BIGINT PRIMARY KEY,
	title TEXT NOT NULL,
	overview TEXT,
	genres TEXT NOT NULL,
	runtime_mins INTEGER,
	release_date TEXT,
	original_language TEXT NOT NULL,
	poster_path TEXT,
	popularity TEXT NOT NULL,
	fingerprint TEXT NOT NULL
)`

// Movie reads and writes canonical movie records.
type Movie struct {
	db     *sql.DB
	driver string
}

// NewMovie creates the repository. driver is the configured database
// driver name, used to pick placeholder style and upsert dialect.
func NewMovie(db *sql.DB, driver string) *Movie {
	return &Movie{db: db, driver: driver}
}

// EnsureSchema creates the movies table when it does not exist.
func (r *Movie) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return storageErr("ensure schema", err)
	}
	return nil
}

// GetByID returns one record or ErrNotFound.
func (r *Movie) GetByID(ctx context.Context, id int64) (*movie.Record, error) {
	query := r.rebind("SELECT " + movieColumns + " FROM movies WHERE id = ?")
	rec, err := scanMovie(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, storageErr("get by id", err)
	}
	return rec, nil
}

// GetByIDs returns the records that exist for the given IDs, keyed by
// ID. Missing IDs are silently omitted, never an error.
func (r *Movie) GetByIDs(ctx context.Context, ids []int64) (map[int64]*movie.Record, error) {
	result := make(map[int64]*movie.Record, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}

	query := r.rebind("SELECT " + movieColumns + " FROM movies WHERE id IN (" + strings.Join(placeholders, ", ") + ")")
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageErr("get by ids", err)
	}
	defer rows.Close()

	for rows.Next() {
		rec, err := scanMovie(rows)
		if err != nil {
			return nil, storageErr("get by ids", err)
		}
		result[rec.ID] = rec
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("get by ids", err)
	}

	return result, nil
}

// GetFingerprint returns the stored content digest for one ID or
// ErrNotFound.
func (r *Movie) GetFingerprint(ctx context.Context, id int64) (string, error) {
	query := r.rebind("SELECT fingerprint FROM movies WHERE id = ?")

	var fp string
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&fp); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", storageErr("get fingerprint", err)
	}
	return fp, nil
}

// Upsert inserts the record or replaces all of its fields if the ID
// already exists. Replace semantics, not merge.
func (r *Movie) Upsert(ctx context.Context, rec *movie.Record) error {
	var query string
	if r.driver == "mysql" {
		query = `INSERT INTO movies (` + movieColumns + `)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON DUPLICATE KEY UPDATE
				title = VALUES(title), overview = VALUES(overview), genres = VALUES(genres),
				runtime_mins = VALUES(runtime_mins), release_date = VALUES(release_date),
				original_language = VALUES(original_language), poster_path = VALUES(poster_path),
				popularity = VALUES(popularity), fingerprint = VALUES(fingerprint)`
	} else {
		query = r.rebind(`INSERT INTO movies (` + movieColumns + `)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET
				title = excluded.title, overview = excluded.overview, genres = excluded.genres,
				runtime_mins = excluded.runtime_mins, release_date = excluded.release_date,
				original_language = excluded.original_language, poster_path = excluded.poster_path,
				popularity = excluded.popularity, fingerprint = excluded.fingerprint`)
	}

	_, err := r.db.ExecContext(ctx, query,
		rec.ID,
		rec.Title,
		nullString(rec.Overview),
		strings.Join(rec.Genres, ","),
		nullInt(rec.RuntimeMins),
		nullString(rec.ReleaseDate),
		rec.OriginalLanguage,
		nullString(rec.PosterPath),
		strconv.FormatFloat(rec.Popularity, 'f', -1, 64),
		rec.Fingerprint,
	)
	if err != nil {
		return storageErr("upsert", err)
	}
	return nil
}

// All streams every record, ordered by ID. Used by the reindex path.
func (r *Movie) All(ctx context.Context) ([]*movie.Record, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+movieColumns+" FROM movies ORDER BY id")
	if err != nil {
		return nil, storageErr("all", err)
	}
	defer rows.Close()

	var records []*movie.Record
	for rows.Next() {
		rec, err := scanMovie(rows)
		if err != nil {
			return nil, storageErr("all", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("all", err)
	}

	return records, nil
}

// Count returns the number of canonical records.
func (r *Movie) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM movies").Scan(&n); err != nil {
		return 0, storageErr("count", err)
	}
	return n, nil
}

// rebind rewrites ? placeholders to $n for PostgreSQL.
func (r *Movie) rebind(query string) string {
	if r.driver != "postgres" {
		return query
	}

	var b strings.Builder
	n := 0
	for _, ch := range query {
		if ch == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(ch)
	}
	return b.String()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMovie(row rowScanner) (*movie.Record, error) {
	var (
		rec         movie.Record
		overview    sql.NullString
		genres      string
		runtime     sql.NullInt64
		releaseDate sql.NullString
		posterPath  sql.NullString
		popularity  string
	)

	err := row.Scan(
		&rec.ID,
		&rec.Title,
		&overview,
		&genres,
		&runtime,
		&releaseDate,
		&rec.OriginalLanguage,
		&posterPath,
		&popularity,
		&rec.Fingerprint,
	)
	if err != nil {
		return nil, err
	}

	if overview.Valid {
		rec.Overview = &overview.String
	}
	if runtime.Valid {
		v := int(runtime.Int64)
		rec.RuntimeMins = &v
	}
	if releaseDate.Valid {
		rec.ReleaseDate = &releaseDate.String
	}
	if posterPath.Valid {
		rec.PosterPath = &posterPath.String
	}

	rec.Genres = splitGenres(genres)

	pop, err := strconv.ParseFloat(popularity, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid stored popularity %q: %w", popularity, err)
	}
	rec.Popularity = pop

	return &rec, nil
}

func splitGenres(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, ",")
}

func nullString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func nullInt(i *int) any {
	if i == nil {
		return nil
	}
	return *i
}
