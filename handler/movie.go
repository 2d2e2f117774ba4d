package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/flickfinder/flickfinder/resp"
)

// GetMovie handles GET /api/v1/movies/:movie_id.
func (h *Handler) GetMovie(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("movie_id"), 10, 64)
	if err != nil {
		resp.Fail(c.Writer, resp.BadRequest("invalid movie_id: must be an integer"))
		return
	}

	rec, err := h.movies.Get(c.Request.Context(), id)
	if err != nil {
		failFromError(c, err)
		return
	}

	resp.Success(c.Writer, rec)
}
