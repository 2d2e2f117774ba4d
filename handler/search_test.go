package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/flickfinder/flickfinder/data/repository"
	"github.com/flickfinder/flickfinder/data/search"
	"github.com/flickfinder/flickfinder/movie"
	"github.com/flickfinder/flickfinder/service"
)

type fakeIndex struct {
	ids    []int64
	total  int64
	err    error
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
}

func (f *fakeStore) GetByID(ctx context.Context, id int64) (*movie.Record, error) {
	rec, ok := f.records[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return rec, nil
}

func (f *fakeStore) GetByIDs(ctx context.Context, ids []int64) (map[int64]*movie.Record, error) {
	out := make(map[int64]*movie.Record)
	for _, id := range ids {
		if rec, ok := f.records[id]; ok {
			out[id] = rec
		}
	}
	return out, nil
}

type fakeHealth struct{}

func (fakeHealth) Ping(ctx context.Context) error { return nil }
func (fakeHealth) SearchHealth(ctx context.Context) map[search.Engine]error {
	return nil
}

func testRouter(index *fakeIndex, store *fakeStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	h := New(
		service.NewSearch(index, store),
		service.NewMovie(store, nil),
		nil,
		fakeHealth{},
	)
	r.GET("/api/v1/movies/search", h.SearchMovies)
	r.GET("/api/v1/movies/:movie_id", h.GetMovie)
	return r
}

func doRequest(t *testing.T, r *gin.Engine, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(w, req)

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v\n%s", err, w.Body.String())
	}
	return w, body
}

func TestSearchEndpoint(t *testing.T) {
	index := &fakeIndex{ids: []int64{42}, total: 1}
	store := &fakeStore{records: map[int64]*movie.Record{
		42: {ID: 42, Title: "Batman Begins", Genres: []string{"Action"}, OriginalLanguage: "en", Popularity: 50},
	}}
	r := testRouter(index, store)

	w, body := doRequest(t, r, "/api/v1/movies/search?text=Batman&page=1&page_size=20")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	results := body["results"].([]any)
	if len(results) != 1 {
		t.Fatalf("results = %v", results)
	}
	first := results[0].(map[string]any)
	if first["id"] != float64(42) || first["title"] != "Batman Begins" {
		t.Fatalf("first result = %v", first)
	}
	if _, leaked := first["fingerprint"]; leaked {
		t.Fatal("fingerprint must never be serialized to clients")
	}

	pagination := body["pagination"].(map[string]any)
	if pagination["current_page"] != float64(1) ||
		pagination["per_page"] != float64(20) ||
		pagination["total_results"] != float64(1) ||
		pagination["total_pages"] != float64(1) ||
		pagination["has_next"] != false ||
		pagination["has_previous"] != false {
		t.Fatalf("pagination = %v", pagination)
	}
	if pagination["next_page"] != nil || pagination["previous_page"] != nil {
		t.Fatalf("page pointers must be null on a single page: %v", pagination)
	}
}

func TestSearchEndpointFilterParams(t *testing.T) {
	index := &fakeIndex{}
	r := testRouter(index, &fakeStore{})

	w, _ := doRequest(t, r, "/api/v1/movies/search?genres=Drama,Crime&languages=en&min_popularity=2.5&sort_field=release_date&sort_order=asc")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	req := index.gotReq
	if len(req.GenreFilters) != 2 || req.GenreFilters[1] != "Crime" {
		t.Fatalf("genres = %v", req.GenreFilters)
	}
	if len(req.LanguageFilters) != 1 || req.LanguageFilters[0] != "en" {
		t.Fatalf("languages = %v", req.LanguageFilters)
	}
	if req.MinPopularity == nil || *req.MinPopularity != 2.5 || req.MaxPopularity != nil {
		t.Fatalf("popularity bounds = %v %v", req.MinPopularity, req.MaxPopularity)
	}
	if req.SortField != movie.SortByReleaseDate || req.SortOrder != movie.SortAsc {
		t.Fatalf("sort = %s %s", req.SortField, req.SortOrder)
	}
}

func TestSearchEndpointBadParams(t *testing.T) {
	r := testRouter(&fakeIndex{}, &fakeStore{})

	for _, path := range []string{
		"/api/v1/movies/search?page=abc",
		"/api/v1/movies/search?page_size=huge",
		"/api/v1/movies/search?min_popularity=high",
		"/api/v1/movies/search?sort_field=vibes",
	} {
		w, body := doRequest(t, r, path)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s: status = %d, want 400", path, w.Code)
		}
		if body["code"] != float64(-400) {
			t.Fatalf("%s: code = %v, want -400", path, body["code"])
		}
	}
}

func TestSearchEndpointUnavailable(t *testing.T) {
	index := &fakeIndex{err: search.ErrUnavailable}
	r := testRouter(index, &fakeStore{})

	w, body := doRequest(t, r, "/api/v1/movies/search?text=x")
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", w.Code)
	}
	if body["code"] != float64(-503) {
		t.Fatalf("code = %v, want -503", body["code"])
	}
}

func TestGetMovieEndpoint(t *testing.T) {
	store := &fakeStore{records: map[int64]*movie.Record{
		7: {ID: 7, Title: "Se7en", Genres: []string{}, OriginalLanguage: "en"},
	}}
	r := testRouter(&fakeIndex{}, store)

	w, body := doRequest(t, r, "/api/v1/movies/7")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if body["title"] != "Se7en" {
		t.Fatalf("body = %v", body)
	}

	w, body = doRequest(t, r, "/api/v1/movies/999")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if body["code"] != float64(-404) {
		t.Fatalf("code = %v, want -404", body["code"])
	}

	w, _ = doRequest(t, r, "/api/v1/movies/abc")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}
