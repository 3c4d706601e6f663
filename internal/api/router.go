package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fixhub-io/fixhub-ce/internal/middleware"
	"github.com/fixhub-io/fixhub-ce/internal/models"
)

// NewRouter builds the gin engine with all routes registered. Ticket change
// events flow to the SSE broker and evict stale cache entries.
func (h *Handler) NewRouter(authMW *middleware.AuthMiddleware) *gin.Engine {
	h.service.SetChangeListener(func(event string, ticketID int64, totalPrice float64) {
		h.cache.Invalidate(context.Background(), ticketID)
		h.events.Broadcast(event, ticketID, totalPrice)
	})

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")

	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/register", h.handleRegister)
		authGroup.POST("/login", h.handleLogin)
		authGroup.POST("/refresh", h.handleRefresh)
		authGroup.POST("/logout", authMW.RequireAuth(), h.handleLogout)
	}

	protected := v1.Group("")
	protected.Use(authMW.RequireAuth())
	{
		protected.GET("/profile", h.handleProfile)

		protected.GET("/workers", h.handleListWorkers)
		protected.GET("/workers/:id", h.handleGetWorker)
		protected.PUT("/workers/:id/rate", authMW.RequireRole(models.RoleAdmin), h.handleUpdateWorkerRate)

		protected.GET("/tickets", h.handleListTickets)
		protected.GET("/tickets/mine", h.handleListMyTickets)
		protected.POST("/tickets", h.handleCreateTicket)
		protected.GET("/tickets/events", h.events.handleTicketEvents)
		protected.GET("/tickets/:id", h.handleGetTicket)
		protected.PUT("/tickets/:id", h.handleUpdateTicket)
		protected.DELETE("/tickets/:id", authMW.RequireRole(models.RoleAdmin), h.handleDeleteTicket)

		protected.GET("/tickets/:id/parts", h.handleListParts)
		protected.POST("/tickets/:id/parts", h.handleAddPart)
		protected.GET("/parts/:id", h.handleGetPart)
		protected.PUT("/parts/:id", h.handleUpdatePart)
		protected.DELETE("/parts/:id", h.handleDeletePart)

		protected.GET("/timeslots", h.handleListMyTimeSlots)
		protected.GET("/timeslots/:id", h.handleGetTimeSlot)
		protected.POST("/tickets/:id/timeslots", h.handleAddTimeSlot)
		protected.DELETE("/timeslots/:id", h.handleDeleteTimeSlot)

		protected.GET("/reports/tickets.xlsx", h.handleTicketReport)
	}

	return r
}
