// Package handler exposes the HTTP surface: movie search, point lookup,
// ingestion administration and health.
package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/flickfinder/flickfinder/data/repository"
	"github.com/flickfinder/flickfinder/data/search"
	"github.com/flickfinder/flickfinder/logging/logger"
	"github.com/flickfinder/flickfinder/resp"
	"github.com/flickfinder/flickfinder/service"
)

// Handler carries the application services behind the routes.
type Handler struct {
	search *service.Search
	movies *service.Movie
	ingest *service.Ingest
	health HealthChecker
}

// New creates the handler set.
func New(search *service.Search, movies *service.Movie, ingest *service.Ingest, health HealthChecker) *Handler {
	return &Handler{
		search: search,
		movies: movies,
		ingest: ingest,
		health: health,
	}
}

// Register mounts all routes on the engine.
func (h *Handler) Register(r *gin.Engine) {
	r.Use(TraceMiddleware(), LoggingMiddleware())

	r.GET("/health", h.Health)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/movies/search", h.SearchMovies)
		v1.GET("/movies/:movie_id", h.GetMovie)

		admin := v1.Group("/admin")
		{
			admin.POST("/ingest", h.TriggerIngest)
			admin.GET("/ingest/status", h.IngestStatus)
			admin.POST("/reindex", h.Reindex)
		}
	}
}

// failFromError maps service errors onto the response envelope.
// SearchUnavailable and StorageError arrive verbatim from the
// orchestrator with their cause preserved for logging.
func failFromError(c *gin.Context, err error) {
	var verr *service.ValidationError
	var serr *repository.StorageError

	switch {
	case errors.As(err, &verr):
		resp.Fail(c.Writer, resp.BadRequest(verr.Error()))
	case errors.Is(err, repository.ErrNotFound):
		resp.Fail(c.Writer, resp.NotFound("movie not found"))
	case errors.Is(err, search.ErrUnavailable):
		logger.Errorf(c.Request.Context(), "search unavailable: %v", err)
		resp.Fail(c.Writer, resp.ServiceUnavailable("search is temporarily unavailable"))
	case errors.Is(err, service.ErrIngestRunning):
		resp.Fail(c.Writer, resp.Conflict(err.Error()))
	case errors.As(err, &serr):
		logger.Errorf(c.Request.Context(), "storage failure: %v", err)
		resp.Fail(c.Writer, resp.InternalServer("internal server error"))
	default:
		logger.Errorf(c.Request.Context(), "unhandled error: %v", err)
		resp.Fail(c.Writer, resp.InternalServer("internal server error"))
	}
}
