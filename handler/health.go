package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/flickfinder/flickfinder/data/search"
	"github.com/flickfinder/flickfinder/resp"
)

// HealthChecker reports the state of the backing connections.
type HealthChecker interface {
	Ping(ctx context.Context) error
	SearchHealth(ctx context.Context) map[search.Engine]error
}

// Health handles GET /health. The database must answer; search engine
// state is reported but does not fail the probe, since the point lookup
// surface works without the index.
func (h *Handler) Health(c *gin.Context) {
	ctx := c.Request.Context()

	engines := map[string]string{}
	for engine, err := range h.health.SearchHealth(ctx) {
		if err != nil {
			engines[string(engine)] = err.Error()
		} else {
			engines[string(engine)] = "ok"
		}
	}

	body := map[string]any{
		"status":  "ok",
		"search":  engines,
		"storage": "ok",
	}

	if err := h.health.Ping(ctx); err != nil {
		body["status"] = "degraded"
		body["storage"] = err.Error()
		resp.Fail(c.Writer, resp.ServiceUnavailable("storage unreachable", body))
		return
	}

	resp.Success(c.Writer, body)
}
