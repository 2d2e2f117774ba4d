package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/flickfinder/flickfinder/resp"
)

// TriggerIngest handles POST /api/v1/admin/ingest. The batch runs in
// the background; a batch already in flight yields a conflict.
func (h *Handler) TriggerIngest(c *gin.Context) {
	if err := h.ingest.Trigger(c.Request.Context()); err != nil {
		failFromError(c, err)
		return
	}

	resp.WithStatusCode(c.Writer, 202, "ingestion started")
}

// IngestStatus handles GET /api/v1/admin/ingest/status.
func (h *Handler) IngestStatus(c *gin.Context) {
	resp.Success(c.Writer, h.ingest.Status())
}

// Reindex handles POST /api/v1/admin/reindex. It rebuilds the search
// index from the canonical store synchronously.
func (h *Handler) Reindex(c *gin.Context) {
	indexed, err := h.ingest.Reindex(c.Request.Context())
	if err != nil {
		failFromError(c, err)
		return
	}

	resp.Success(c.Writer, map[string]any{"indexed": indexed})
}
