// ws/handler.go - WebSocket endpoint
package ws

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// UpgradeRequired gates the route so plain HTTP requests get a clear error
// instead of a hung connection.
func UpgradeRequired(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		// Team identity travels on Locals set by the auth middleware, if any.
		if teamID, ok := c.Locals("teamId").(string); ok {
			c.Locals("ws_team_id", teamID)
		}
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Handler upgrades the connection and pumps hub events to the client until
// it disconnects. Inbound frames are drained and ignored: the feed is
// server-authoritative and clients refetch over REST instead of sending
// commands here.
func Handler(hub *Hub) fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		teamID, _ := conn.Locals("ws_team_id").(string)
		client := &Client{
			ID:     uuid.New().String(),
			TeamID: teamID,
			conn:   conn,
			send:   make(chan []byte, sendBufferSize),
		}
		hub.Register(client)

		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		client.writePump(done)
		hub.Unregister(client)
		conn.Close()
	})
}

// writePump serializes all writes to the connection and keeps it alive with
// pings. Returns when the hub closes the send channel or the reader drops.
func (c *Client) writePump(done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				c.conn.WriteControl(websocket.CloseMessage, []byte{}, time.Now().Add(writeWait))
				return
			}
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
