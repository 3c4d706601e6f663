package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fixhub-io/fixhub-ce/internal/middleware"
	"github.com/fixhub-io/fixhub-ce/internal/models"
)

// handleListMyTimeSlots returns the authenticated worker's bookings.
func (h *Handler) handleListMyTimeSlots(c *gin.Context) {
	workerID, ok := middleware.WorkerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error":   "Not authenticated",
		})
		return
	}

	slots, err := h.service.ListTimeSlotsForWorker(c.Request.Context(), workerID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    slots,
	})
}

// handleGetTimeSlot returns a single booking.
func (h *Handler) handleGetTimeSlot(c *gin.Context) {
	slotID, ok := parseID(c, "id")
	if !ok {
		return
	}

	slot, err := h.service.GetTimeSlot(c.Request.Context(), slotID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    slot,
	})
}

// handleAddTimeSlot books the authenticated worker onto a ticket.
func (h *Handler) handleAddTimeSlot(c *gin.Context) {
	ticketID, ok := parseID(c, "id")
	if !ok {
		return
	}

	workerID, ok := middleware.WorkerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error":   "Not authenticated",
		})
		return
	}

	var req models.TimeSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, "Invalid time-slot payload: "+err.Error())
		return
	}

	slot, err := h.service.AddTimeSlot(c.Request.Context(), ticketID, workerID, &req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    slot,
	})
}

// handleDeleteTimeSlot cancels a booking. Workers may only cancel their own
// slots; admins may cancel any.
func (h *Handler) handleDeleteTimeSlot(c *gin.Context) {
	slotID, ok := parseID(c, "id")
	if !ok {
		return
	}

	workerID, _ := middleware.WorkerID(c)
	role := c.GetString("worker_role")

	slot, err := h.service.GetTimeSlot(c.Request.Context(), slotID)
	if err != nil {
		writeError(c, err)
		return
	}
	if role != models.RoleAdmin && slot.WorkerID != workerID {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error":   "Cannot cancel another worker's booking",
		})
		return
	}

	if err := h.service.DeleteTimeSlot(c.Request.Context(), slotID); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Time-slot deleted",
	})
}
