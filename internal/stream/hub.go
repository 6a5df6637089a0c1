// Package stream fans live tracking snapshots out to websocket subscribers.
// With Redis configured, broadcasts are relayed between API instances.
package stream

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	channelPrefix = "carbon:tracking:"
	channelSuffix = ":broadcast"
)

type Hub struct {
	redis   *redis.Client
	logger  *zap.Logger
	origin  string
	clients map[string]map[*Client]struct{}
	mu      sync.RWMutex

	pubsub *redis.PubSub
	done   chan struct{}
}

type Client struct {
	SessionID string
	Send      chan []byte
}

// relayMessage tags relayed payloads so an instance skips its own broadcasts.
type relayMessage struct {
	Origin  string `json:"origin"`
	Payload []byte `json:"payload"`
}

func NewHub(redisClient *redis.Client, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Hub{
		redis:   redisClient,
		logger:  logger,
		origin:  uuid.NewString(),
		clients: map[string]map[*Client]struct{}{},
		done:    make(chan struct{}),
	}

	if redisClient == nil {
		close(h.done)
		return h
	}

	ctx := context.Background()
	h.pubsub = redisClient.PSubscribe(ctx, channelPrefix+"*"+channelSuffix)
	if _, err := h.pubsub.Receive(ctx); err != nil {
		logger.Warn("redis relay unavailable", zap.Error(err))
	}
	go h.relay(h.pubsub.Channel())
	return h
}

func (h *Hub) Register(sessionID string) *Client {
	client := &Client{
		SessionID: sessionID,
		Send:      make(chan []byte, 64),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[sessionID] == nil {
		h.clients[sessionID] = map[*Client]struct{}{}
	}
	h.clients[sessionID][client] = struct{}{}
	return client
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sessionClients, ok := h.clients[client.SessionID]
	if !ok {
		return
	}
	if _, ok := sessionClients[client]; !ok {
		return
	}
	delete(sessionClients, client)
	if len(sessionClients) == 0 {
		delete(h.clients, client.SessionID)
	}
	close(client.Send)
}

// Broadcast delivers payload to local subscribers of the session and, when
// Redis is configured, to subscribers on other instances.
func (h *Hub) Broadcast(sessionID string, payload []byte) {
	h.deliver(sessionID, payload)

	if h.redis == nil {
		return
	}
	msg, err := json.Marshal(relayMessage{Origin: h.origin, Payload: payload})
	if err != nil {
		h.logger.Warn("encode relay message", zap.String("session_id", sessionID), zap.Error(err))
		return
	}
	if err := h.redis.Publish(context.Background(), redisChannel(sessionID), msg).Err(); err != nil {
		h.logger.Warn("redis publish failed", zap.String("session_id", sessionID), zap.Error(err))
	}
}

// Subscribers returns the number of local subscribers for a session.
func (h *Hub) Subscribers(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[sessionID])
}

// Close stops the Redis relay.
func (h *Hub) Close() {
	if h.pubsub != nil {
		if err := h.pubsub.Close(); err != nil {
			h.logger.Debug("close redis relay", zap.Error(err))
		}
	}
	<-h.done
}

func (h *Hub) deliver(sessionID string, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients[sessionID] {
		select {
		case client.Send <- payload:
		default:
			h.logger.Debug("dropping message for slow subscriber", zap.String("session_id", sessionID))
		}
	}
}

func (h *Hub) relay(messages <-chan *redis.Message) {
	defer close(h.done)

	for msg := range messages {
		sessionID := sessionIDFromChannel(msg.Channel)
		if sessionID == "" {
			continue
		}
		var relayed relayMessage
		if err := json.Unmarshal([]byte(msg.Payload), &relayed); err != nil {
			h.logger.Warn("malformed relay message", zap.String("channel", msg.Channel), zap.Error(err))
			continue
		}
		if relayed.Origin == h.origin {
			continue
		}
		h.deliver(sessionID, relayed.Payload)
	}
}

func redisChannel(sessionID string) string {
	return channelPrefix + sessionID + channelSuffix
}

func sessionIDFromChannel(ch string) string {
	// carbon:tracking:{session}:broadcast
	if !strings.HasPrefix(ch, channelPrefix) || !strings.HasSuffix(ch, channelSuffix) {
		return ""
	}
	if len(ch) <= len(channelPrefix)+len(channelSuffix) {
		return ""
	}
	return ch[len(channelPrefix) : len(ch)-len(channelSuffix)]
}
