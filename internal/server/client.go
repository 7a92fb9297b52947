package server

import (
	"encoding/json"
	"log"

	"plump-game/internal/protocol"

	"github.com/gorilla/websocket"
)

// Client represents a single WebSocket connection. Its ID starts as a
// fresh connection ID and is rebound to the stable player ID on rejoin.
// ID and Name are owned by the hub goroutine; the pumps identify the
// connection by its remote address.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	ID   string // player ID once seated; connection ID before that
	Name string // player's chosen name
}

// ReadPump handles incoming messages from the WebSocket connection.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	for {
		_, messageBytes, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("Unexpected close from %s: %v", c.conn.RemoteAddr(), err)
			}
			break
		}

		var msg protocol.Message
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			log.Printf("Error unmarshalling message from %s: %v", c.conn.RemoteAddr(), err)
			continue
		}

		if msg.Type != "ping" {
			log.Printf("Received message type '%s' from %s", msg.Type, c.conn.RemoteAddr())
		}
		c.hub.processMessage <- clientMessage{client: c, message: msg}
	}
}

// WritePump handles outgoing messages to the WebSocket connection.
func (c *Client) WritePump() {
	defer c.conn.Close()

	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			log.Printf("Write error to %s: %v", c.conn.RemoteAddr(), err)
			break
		}
	}
}
