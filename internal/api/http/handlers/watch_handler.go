package handlers

import (
	"bufio"
	"context"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"github.com/interpreteya/booking-service/internal/stream"
	apperrors "github.com/interpreteya/booking-service/pkg/errorutil"
)

const watchHeartbeat = 25 * time.Second

// WatchHandler streams collection changes to clients as server-sent events.
type WatchHandler struct {
	feed *stream.Feed
}

// NewWatchHandler constructs handler.
func NewWatchHandler(feed *stream.Feed) *WatchHandler {
	return &WatchHandler{feed: feed}
}

// Watch GET /watch/:collection. The connection stays open and every change
// to the collection arrives as one SSE "change" event. Heartbeat comments
// keep intermediaries from closing idle streams.
func (h *WatchHandler) Watch(c *fiber.Ctx) error {
	collection := c.Params("collection")
	switch collection {
	case stream.CollectionAccounts, stream.CollectionBookings:
	default:
		return apperrors.NewValidationError("unknown collection", map[string]any{"collection": collection})
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	ctx, cancel := context.WithCancel(c.Context())
	changes := h.feed.Watch(ctx, collection)

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer cancel()
		ticker := time.NewTicker(watchHeartbeat)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := w.WriteString(": ping\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			case event, ok := <-changes:
				if !ok {
					return
				}
				payload, err := json.Marshal(event)
				if err != nil {
					continue
				}
				if _, err := w.WriteString("event: change\ndata: " + string(payload) + "\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	}))
	return nil
}
