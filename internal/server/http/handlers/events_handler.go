package handlers

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	snapshotEvent     = "snapshot"
	keepaliveEvent    = "keepalive"
	keepaliveInterval = 30 * time.Second
)

// EventsHandler streams driver page updates as Server-Sent Events.
type EventsHandler struct {
	facade    DriverFacade
	keepalive time.Duration
}

// NewEventsHandler constructs EventsHandler.
func NewEventsHandler(facade DriverFacade) *EventsHandler {
	return &EventsHandler{facade: facade, keepalive: keepaliveInterval}
}

// Stream handles GET /api/drivers/:id/events. The driver's view stays open
// for as long as the client is connected.
func (h *EventsHandler) Stream(c *gin.Context) {
	driverID, err := driverIDParam(c)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	snapshots, err := h.facade.Watch(c.Request.Context(), driverID)
	if err != nil {
		_ = c.Error(err)
		c.Status(statusFor(err))
		return
	}

	ticker := time.NewTicker(h.keepalive)
	defer ticker.Stop()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Stream(func(io.Writer) bool {
		select {
		case snap, ok := <-snapshots:
			if !ok {
				return false
			}
			c.SSEvent(snapshotEvent, toSnapshotResponse(snap))
		case <-ticker.C:
			c.SSEvent(keepaliveEvent, "ping")
		}
		return true
	})
}
