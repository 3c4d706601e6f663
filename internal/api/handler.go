package api

import (
	"github.com/fixhub-io/fixhub-ce/internal/auth"
	"github.com/fixhub-io/fixhub-ce/internal/cache"
	"github.com/fixhub-io/fixhub-ce/internal/repository"
	"github.com/fixhub-io/fixhub-ce/internal/services/workshop"
)

// Handler bundles the dependencies shared by the HTTP handlers.
type Handler struct {
	service *workshop.Service
	authSvc *auth.AuthService
	workers repository.WorkerRepository
	cache   *cache.TicketCache
	limiter *auth.LoginRateLimiter
	events  *EventBroker
}

// NewHandler wires the handler set and registers the event broker and cache
// invalidation as the service's change listener.
func NewHandler(
	service *workshop.Service,
	authSvc *auth.AuthService,
	workers repository.WorkerRepository,
	ticketCache *cache.TicketCache,
	limiter *auth.LoginRateLimiter,
) *Handler {
	h := &Handler{
		service: service,
		authSvc: authSvc,
		workers: workers,
		cache:   ticketCache,
		limiter: limiter,
		events:  NewEventBroker(),
	}
	return h
}
