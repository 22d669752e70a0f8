// Package ws delivers chat messages to connected clients over
// gorilla/websocket. Clients join a room per conversation; the chat
// service broadcasts persisted messages into the room so both
// participants see them without polling.
package ws

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/workhive/workhive/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// SetCheckOrigin replaces the default allow-all origin checker.
func SetCheckOrigin(fn func(r *http.Request) bool) {
	upgrader.CheckOrigin = fn
}

// Client is one connected socket, pinned to a room and a user.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	Room   string
	UserID uint
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("ws: unexpected close", "error", err)
			}
			break
		}
		c.hub.Inbound <- Inbound{Client: c, Data: msg}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Inbound is a message received from a client socket.
type Inbound struct {
	Client *Client
	Data   []byte
}

type roomMessage struct {
	room string
	data []byte
}

// Hub tracks connected clients grouped by room.
type Hub struct {
	rooms      map[string]map[*Client]bool
	broadcast  chan roomMessage
	Inbound    chan Inbound
	register   chan *Client
	unregister chan *Client
	// OnMessage handles inbound socket messages (optional; the chat
	// service sends through the REST API, so this is mostly typing
	// indicators).
	OnMessage func(hub *Hub, msg Inbound)
}

// NewHub creates a hub. Run it in its own goroutine.
func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		broadcast:  make(chan roomMessage, 256),
		Inbound:    make(chan Inbound, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Broadcast queues data for every client in room.
func (h *Hub) Broadcast(room string, data []byte) {
	select {
	case h.broadcast <- roomMessage{room: room, data: data}:
	default:
		logger.Warn("ws: broadcast buffer full, dropping", "room", room)
	}
}

// Run is the hub event loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			if h.rooms[client.Room] == nil {
				h.rooms[client.Room] = make(map[*Client]bool)
			}
			h.rooms[client.Room][client] = true
			logger.Info("ws: client joined", "room", client.Room, "user_id", client.UserID)

		case client := <-h.unregister:
			if peers, ok := h.rooms[client.Room]; ok && peers[client] {
				delete(peers, client)
				close(client.send)
				if len(peers) == 0 {
					delete(h.rooms, client.Room)
				}
			}

		case msg := <-h.broadcast:
			for client := range h.rooms[msg.room] {
				select {
				case client.send <- msg.data:
				default:
					close(client.send)
					delete(h.rooms[msg.room], client)
				}
			}

		case msg := <-h.Inbound:
			if h.OnMessage != nil {
				h.OnMessage(h, msg)
			}
		}
	}
}

// Upgrade switches the HTTP connection to a WebSocket in the given room.
func Upgrade(w http.ResponseWriter, r *http.Request, hub *Hub, room string, userID uint) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("ws: upgrade failed", "error", err)
		return
	}
	client := &Client{hub: hub, conn: conn, send: make(chan []byte, 256), Room: room, UserID: userID}
	hub.register <- client
	go client.writePump()
	go client.readPump()
}
