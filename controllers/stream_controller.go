package controllers

import (
	"io"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"hotel-frontdesk/events"
)

const streamHeartbeat = 25 * time.Second

// StreamController pushes change events to the UI as server-sent events.
type StreamController struct {
	Feed events.Feed
}

func NewStreamController(feed events.Feed) *StreamController {
	return &StreamController{Feed: feed}
}

func parseCollections(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// GET /api/stream?collections=rooms,allocations
// An empty list subscribes to everything.
func (sc *StreamController) Stream(c *gin.Context) {
	ctx := c.Request.Context()
	ch, cancel := sc.Feed.Subscribe(ctx, parseCollections(c.Query("collections"))...)
	defer cancel()

	ticker := time.NewTicker(streamHeartbeat)
	defer ticker.Stop()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.SSEvent("ready", gin.H{"at": time.Now()})
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case ev, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent("change", ev)
			return true
		case t := <-ticker.C:
			c.SSEvent("ping", gin.H{"at": t})
			return true
		case <-ctx.Done():
			return false
		}
	})
}
