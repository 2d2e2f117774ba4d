package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/flickfinder/flickfinder/movie"
	"github.com/flickfinder/flickfinder/resp"
)

// SearchMovies handles GET /api/v1/movies/search.
func (h *Handler) SearchMovies(c *gin.Context) {
	req, err := parseSearchRequest(c)
	if err != nil {
		resp.Fail(c.Writer, resp.BadRequest(err.Error()))
		return
	}

	page, err := h.search.Query(c.Request.Context(), req)
	if err != nil {
		failFromError(c, err)
		return
	}

	resp.Success(c.Writer, page)
}

// parseSearchRequest shapes query parameters into a search request.
// Multi-value filters accept comma-separated lists.
func parseSearchRequest(c *gin.Context) (*movie.SearchRequest, error) {
	req := &movie.SearchRequest{
		Text:            strings.TrimSpace(c.Query("text")),
		GenreFilters:    splitList(c.Query("genres")),
		LanguageFilters: splitList(c.Query("languages")),
		SortField:       movie.SortField(c.Query("sort_field")),
		SortOrder:       movie.SortOrder(c.Query("sort_order")),
	}

	var err error
	if req.Page, err = intParam(c, "page", 1); err != nil {
		return nil, err
	}
	if req.PageSize, err = intParam(c, "page_size", 20); err != nil {
		return nil, err
	}
	if req.MinPopularity, err = floatParam(c, "min_popularity"); err != nil {
		return nil, err
	}
	if req.MaxPopularity, err = floatParam(c, "max_popularity"); err != nil {
		return nil, err
	}

	return req, nil
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func intParam(c *gin.Context, name string, def int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &paramError{name: name, want: "an integer"}
	}
	return v, nil
}

func floatParam(c *gin.Context, name string) (*float64, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, &paramError{name: name, want: "a number"}
	}
	return &v, nil
}

type paramError struct {
	name string
	want string
}

func (e *paramError) Error() string {
	return "invalid " + e.name + ": must be " + e.want
}
