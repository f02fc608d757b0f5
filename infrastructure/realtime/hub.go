package realtime

import (
	"io"
	"sync"

	"github.com/gin-gonic/gin"

	"ytbulkedit/domain/model"
)

// Hub fans batch events out to Server-Sent Events subscribers.
type Hub struct {
	mu   sync.RWMutex
	subs map[chan model.Event]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[chan model.Event]struct{})}
}

// Subscribe registers a buffered listener. The returned func unregisters it and closes the channel.
func (h *Hub) Subscribe() (<-chan model.Event, func()) {
	ch := make(chan model.Event, 64)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, ch)
			close(ch)
			h.mu.Unlock()
		})
	}
}

// Publish never blocks the batch. Slow subscribers miss events.
func (h *Hub) Publish(evt model.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs {
		select {
		case ch <- evt:
		default:
		}
	}
}

func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Serve streams events to the client until it disconnects.
func (h *Hub) Serve(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // disable nginx buffering

	events, cancel := h.Subscribe()
	defer cancel()

	// Initial comment to keep connection open
	_, _ = c.Writer.Write([]byte(":ok\n\n"))
	c.Writer.Flush()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case evt, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent(string(evt.Type), evt.Payload)
			return true
		}
	})
}
