package api

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// EventBroker fans ticket change events out to connected SSE clients.
type EventBroker struct {
	mu      sync.RWMutex
	clients map[chan string]struct{}
}

func NewEventBroker() *EventBroker {
	return &EventBroker{clients: make(map[chan string]struct{})}
}

// Broadcast sends a ticket update to every connected client. Clients with a
// full channel are skipped rather than blocked on.
func (b *EventBroker) Broadcast(event string, ticketID int64, totalPrice float64) {
	data, _ := json.Marshal(map[string]interface{}{
		"type":        event,
		"ticket_id":   ticketID,
		"total_price": totalPrice,
		"timestamp":   time.Now().Unix(),
	})
	message := string(data)

	b.mu.RLock()
	defer b.mu.RUnlock()
	for client := range b.clients {
		select {
		case client <- message:
		default:
		}
	}
}

// handleTicketEvents streams ticket updates over Server-Sent Events.
func (b *EventBroker) handleTicketEvents(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	clientChan := make(chan string, 10)

	b.mu.Lock()
	b.clients[clientChan] = struct{}{}
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		delete(b.clients, clientChan)
		b.mu.Unlock()
		close(clientChan)
	}()

	c.SSEvent("connected", "Connected to ticket event stream")
	c.Writer.Flush()

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg := <-clientChan:
			c.SSEvent("ticket-update", msg)
			c.Writer.Flush()
		case <-ticker.C:
			c.SSEvent("heartbeat", "ping")
			c.Writer.Flush()
		case <-c.Request.Context().Done():
			return
		}
	}
}
