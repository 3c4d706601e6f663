package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/xeonx/timeago"

	"github.com/fixhub-io/fixhub-ce/internal/middleware"
	"github.com/fixhub-io/fixhub-ce/internal/models"
)

func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		writeBadRequest(c, "Invalid "+name)
		return 0, false
	}
	return id, true
}

// handleListTickets returns all tickets with a human-readable age.
func (h *Handler) handleListTickets(c *gin.Context) {
	tickets, err := h.service.ListTickets(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	items := make([]models.TicketListItem, 0, len(tickets))
	for _, t := range tickets {
		items = append(items, models.TicketListItem{
			Ticket:     t,
			CreatedAgo: timeago.English.Format(t.CreateTime),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    items,
	})
}

// handleListMyTickets returns tickets the authenticated worker has booked
// time on.
func (h *Handler) handleListMyTickets(c *gin.Context) {
	workerID, ok := middleware.WorkerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error":   "Not authenticated",
		})
		return
	}

	tickets, err := h.service.ListTicketsForWorker(c.Request.Context(), workerID)
	if err != nil {
		writeError(c, err)
		return
	}

	items := make([]models.TicketListItem, 0, len(tickets))
	for _, t := range tickets {
		items = append(items, models.TicketListItem{
			Ticket:     t,
			CreatedAgo: timeago.English.Format(t.CreateTime),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    items,
	})
}

// handleCreateTicket registers a new repair ticket.
func (h *Handler) handleCreateTicket(c *gin.Context) {
	var req models.TicketCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, "Invalid ticket payload: "+err.Error())
		return
	}

	ticket, err := h.service.CreateTicket(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    ticket,
	})
}

// handleGetTicket returns a ticket with its parts, time-slots and workers.
// Joined payloads are served from the cache when possible.
func (h *Handler) handleGetTicket(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	ticket := h.cache.Get(ctx, id)
	if ticket == nil {
		var err error
		ticket, err = h.service.GetTicket(ctx, id)
		if err != nil {
			writeError(c, err)
			return
		}
		h.cache.Set(ctx, ticket)
	}

	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"data":             ticket,
		"description_html": renderDescription(ticket.Description),
	})
}

// handleUpdateTicket edits a ticket's descriptive fields and status.
func (h *Handler) handleUpdateTicket(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req models.TicketUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, "Invalid ticket payload: "+err.Error())
		return
	}

	if err := h.service.UpdateTicket(c.Request.Context(), id, &req); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Ticket updated",
	})
}

// handleDeleteTicket removes a ticket and everything attached to it.
func (h *Handler) handleDeleteTicket(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteTicket(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Ticket deleted",
	})
}
