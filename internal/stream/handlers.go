package stream

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

const pingPeriod = 25 * time.Second

// Authorizer runs before the upgrade and rejects callers that may not watch
// sessionID. Returning a *fiber.Error sets the response status.
type Authorizer func(c *fiber.Ctx, sessionID string) error

func RegisterRoutes(r fiber.Router, hub *Hub, authorize Authorizer) {
	r.Use("/ws", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		return c.Next()
	})

	r.Get("/ws/:sessionID", func(c *fiber.Ctx) error {
		if authorize != nil {
			if err := authorize(c, c.Params("sessionID")); err != nil {
				return err
			}
		}
		return c.Next()
	}, websocket.New(func(c *websocket.Conn) {
		serveSession(hub, c)
	}))
}

func serveSession(hub *Hub, c *websocket.Conn) {
	client := hub.Register(c.Params("sessionID"))

	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case msg, ok := <-client.Send:
				if !ok {
					return
				}
				if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
					return
				}
			case <-ticker.C:
				if err := c.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	// Inbound frames are ignored; reading only detects the close.
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			break
		}
	}
	hub.Unregister(client)
	<-done
}
