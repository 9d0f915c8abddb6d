package chat

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Время ожидания записи
	writeWait = 10 * time.Second

	// Время ожидания pong от клиента
	pongWait = 60 * time.Second

	// Интервал отправки ping
	pingPeriod = (pongWait * 9) / 10

	// Максимальный размер события (только текст, вложений нет)
	maxEventSize = 8 * 1024
)

// Client - одно живое соединение push-канала.
// Набор групп, к которым он присоединён, живёт только пока живо соединение.
type Client struct {
	ID     uuid.UUID
	UserID uuid.UUID
	Conn   *websocket.Conn
	Send   chan []byte
	hub    *Hub

	mu     sync.RWMutex
	groups map[uuid.UUID]bool
}

func NewClient(hub *Hub, conn *websocket.Conn, userID uuid.UUID) *Client {
	return &Client{
		ID:     uuid.New(),
		UserID: userID,
		Conn:   conn,
		Send:   make(chan []byte, 64),
		groups: make(map[uuid.UUID]bool),
		hub:    hub,
	}
}

// ReadPump читает события от клиента до разрыва соединения
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxEventSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		ev, err := DecodeInbound(raw)
		if err != nil {
			c.SendError(err.Error())
			continue
		}

		switch ev.Type {
		case EventJoinGroup:
			if err := c.hub.JoinGroup(c, ev.GroupID); err != nil {
				if errors.Is(err, ErrAuthorization) || errors.Is(err, ErrNotFound) {
					c.SendError(err.Error())
					continue
				}
				log.Printf("Join group %s failed: %v", ev.GroupID, err)
				c.SendError("join failed")
			}

		case EventLeaveGroup:
			c.hub.LeaveGroup(c, ev.GroupID)
		}
	}
}

// WritePump пишет события клиенту и шлёт ping
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub закрыл канал
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// enqueue кладёт событие в очередь клиента не блокируясь.
// Медленный потребитель теряет событие и восстановится перезапросом истории.
func (c *Client) enqueue(data []byte) error {
	select {
	case c.Send <- data:
		return nil
	default:
		return ErrClientQueueFull
	}
}

func (c *Client) SendError(msg string) {
	data, err := ErrorEvent(msg)
	if err != nil {
		return
	}
	if err := c.enqueue(data); err != nil {
		log.Printf("Client %s: %v", c.ID, err)
	}
}

func (c *Client) InGroup(groupID uuid.UUID) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.groups[groupID]
}

func (c *Client) Groups() []uuid.UUID {
	c.mu.RLock()
	defer c.mu.RUnlock()

	groups := make([]uuid.UUID, 0, len(c.groups))
	for groupID := range c.groups {
		groups = append(groups, groupID)
	}
	return groups
}
