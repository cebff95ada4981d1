package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"yt-coach-be/internal/dto"
	"yt-coach-be/internal/pkg/logger"

	"github.com/redis/go-redis/v9"
)

const progressChannel = "ingest:progress"

// Hub fans ingestion progress events out to every connected websocket
// client. With Redis configured, events published on one instance reach
// clients connected to the others.
type Hub struct {
	clients map[*Client]bool

	register chan *Client

	unregister chan *Client

	mu sync.RWMutex

	// Redis connection for cross-instance fanout (optional)
	rdb *redis.Client

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		rdb:        rdb,
		logger:     log,
	}
}

func (h *Hub) Run() {
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.logger.Info("Hub", "Progress client registered", map[string]interface{}{"clients": h.clientCount()})

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mu.Unlock()
			h.logger.Info("Hub", "Progress client unregistered", map[string]interface{}{"clients": h.clientCount()})
		}
	}
}

func (h *Hub) clientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// BroadcastProgress sends an ingestion event to all local clients and
// publishes it to Redis for the rest of the cluster.
func (h *Hub) BroadcastProgress(event dto.ProgressEvent) {
	data, err := json.Marshal(map[string]interface{}{
		"type": "ingest_progress",
		"data": event,
	})
	if err != nil {
		h.logger.Error("Hub", "Failed to serialize progress event", map[string]interface{}{"error": err.Error()})
		return
	}

	if h.rdb != nil {
		// The subscriber loop echoes the publish back to local clients,
		// so publishing alone avoids double delivery on this instance.
		h.rdb.Publish(context.Background(), progressChannel, data)
		return
	}

	h.broadcastLocal(data)
}

func (h *Hub) broadcastLocal(data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		select {
		case client.Send <- data:
		default:
			// Slow consumer, drop it rather than block the broadcast.
			go func(c *Client) { h.unregister <- c }(client)
		}
	}
}

func (h *Hub) subscribeToRedis() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, progressChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()

	for msg := range ch {
		if !json.Valid([]byte(msg.Payload)) {
			log.Printf("Redis msg parse error: invalid JSON on %s", progressChannel)
			continue
		}
		h.broadcastLocal([]byte(msg.Payload))
	}
}
