package http

import (
	"net/http"
	"strconv"
	"time"

	"sahara/pkg/logger"
	"sahara/pkg/queue"
	"sahara/services/feed/internal/entity"
	"sahara/services/feed/internal/stream"
	"sahara/services/feed/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const writeTimeout = 10 * time.Second

type FeedHandler struct {
	feedUseCase usecase.FeedUseCase
	broker      *stream.Broker
	upgrader    websocket.Upgrader
	logger      *logger.Logger
}

func NewFeedHandler(feedUseCase usecase.FeedUseCase, broker *stream.Broker, logger *logger.Logger) *FeedHandler {
	return &FeedHandler{
		feedUseCase: feedUseCase,
		broker:      broker,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		logger: logger,
	}
}

// GetFeed godoc
// @Summary      Get the recent posts feed
// @Description  Newest posts first, at most 50 per page. Anonymous posts carry a masked display name.
// @Tags         feed
// @Produce      json
// @Security     BearerAuth
// @Param        limit query int false "Number of posts to return (max 50)"
// @Param        offset query int false "Offset for pagination"
// @Success      200  {object}  map[string]interface{}
// @Router       /feed [get]
func (h *FeedHandler) GetFeed(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	items, err := h.feedUseCase.GetFeed(c.Request.Context(), limit, offset)
	if err != nil {
		h.logger.Error("Failed to get feed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get feed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": items, "count": len(items), "offset": offset})
}

// Live godoc
// @Summary      Stream new posts over a WebSocket
// @Description  Each committed post is pushed as one JSON message. The subscription is released when the client disconnects.
// @Tags         feed
// @Security     BearerAuth
// @Router       /feed/live [get]
func (h *FeedHandler) Live(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed: %v", err)
		return
	}

	sub := h.broker.Subscribe()
	defer sub.Unsubscribe()
	defer conn.Close()

	// The read side only watches for the client going away.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case event, ok := <-sub.Events():
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteJSON(itemFromEvent(event)); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

// itemFromEvent strips the owner id before anything reaches a client.
func itemFromEvent(event queue.PostEvent) entity.FeedItem {
	return entity.FeedItem{
		ID:          event.PostID,
		DisplayName: event.DisplayName,
		ImageURL:    event.ImageURL,
		Latitude:    event.Latitude,
		Longitude:   event.Longitude,
		Description: event.Description,
		IsAnonymous: event.IsAnonymous,
		CreatedAt:   event.CreatedAt,
	}
}
