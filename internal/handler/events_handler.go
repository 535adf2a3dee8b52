package handler

import (
	"fmt"
	"time"

	"filmsocial/backend/internal/hub"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const defaultHeartbeat = 30 * time.Second

// StreamEvents godoc
// @Summary      Stream relationship events
// @Description  Server-sent events for every committed relationship change involving the caller.
// @Tags         users
// @Produce      text/event-stream
// @Security     BearerAuth
// @Success      200
// @Router       /users/me/events [get]
func (h *Handler) StreamEvents(c *gin.Context) {
	me, ok := currentUser(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	client := make(hub.Client, 16)
	h.Hub.Subscribe(me, client)
	defer h.Hub.Unsubscribe(me, client)
	h.Log.Debug("event stream opened", zap.Uint("user_id", me))

	fmt.Fprintf(c.Writer, "event: connected\ndata: {}\n\n")
	c.Writer.Flush()

	heartbeat := h.Heartbeat
	if heartbeat <= 0 {
		heartbeat = defaultHeartbeat
	}
	ticker := time.NewTicker(heartbeat)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-client:
			if !ok {
				return
			}
			fmt.Fprintf(c.Writer, "event: message\ndata: %s\n\n", msg)
			c.Writer.Flush()

		case <-ticker.C:
			fmt.Fprintf(c.Writer, ": keepalive\n\n")
			c.Writer.Flush()

		case <-c.Request.Context().Done():
			h.Log.Debug("event stream closed", zap.Uint("user_id", me))
			return
		}
	}
}
