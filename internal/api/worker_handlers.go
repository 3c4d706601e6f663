package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fixhub-io/fixhub-ce/internal/models"
)

// handleListWorkers returns all worker accounts.
func (h *Handler) handleListWorkers(c *gin.Context) {
	workers, err := h.workers.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    workers,
	})
}

// handleGetWorker returns a single worker account.
func (h *Handler) handleGetWorker(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	worker, err := h.workers.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    worker,
	})
}

// handleUpdateWorkerRate changes a worker's hourly rate. Existing ticket
// totals are re-derived on the next mutation or audit sweep.
func (h *Handler) handleUpdateWorkerRate(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req models.RateUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, "Invalid rate payload: "+err.Error())
		return
	}

	ctx := c.Request.Context()
	if _, err := h.workers.GetByID(ctx, id); err != nil {
		writeError(c, err)
		return
	}
	if err := h.workers.UpdateHourlyRate(ctx, id, req.HourlyRate); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Hourly rate updated",
	})
}
