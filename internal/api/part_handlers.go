package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fixhub-io/fixhub-ce/internal/models"
)

// handleListParts returns the parts attached to a ticket.
func (h *Handler) handleListParts(c *gin.Context) {
	ticketID, ok := parseID(c, "id")
	if !ok {
		return
	}

	parts, err := h.service.ListParts(c.Request.Context(), ticketID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    parts,
	})
}

// handleAddPart attaches a part to a ticket and returns the created part.
func (h *Handler) handleAddPart(c *gin.Context) {
	ticketID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req models.PartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, "Invalid part payload: "+err.Error())
		return
	}

	part, err := h.service.AddPart(c.Request.Context(), ticketID, &req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    part,
	})
}

// handleGetPart returns a single part.
func (h *Handler) handleGetPart(c *gin.Context) {
	partID, ok := parseID(c, "id")
	if !ok {
		return
	}

	part, err := h.service.GetPart(c.Request.Context(), partID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    part,
	})
}

// handleUpdatePart edits a part's name, price or quantity.
func (h *Handler) handleUpdatePart(c *gin.Context) {
	partID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req models.PartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, "Invalid part payload: "+err.Error())
		return
	}

	part, err := h.service.UpdatePart(c.Request.Context(), partID, &req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    part,
	})
}

// handleDeletePart detaches a part from its ticket.
func (h *Handler) handleDeletePart(c *gin.Context) {
	partID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeletePart(c.Request.Context(), partID); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Part deleted",
	})
}
