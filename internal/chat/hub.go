package chat

import (
	"context"
	"log"
	"sync"

	"github.com/google/uuid"
)

// Registry отвечает на вопросы о членстве в группах.
// Hub только читает членство, никогда не меняет его.
type Registry interface {
	IsMember(groupID, userID uuid.UUID) (bool, error)
}

// Hub хранит живые соединения и раздаёт события по группам.
// Создаётся один на процесс и передаётся явно, без глобального состояния.
type Hub struct {
	registry Registry

	clients map[uuid.UUID]*Client

	// Соединения, присоединённые к группе
	groups map[uuid.UUID]map[uuid.UUID]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	// Контекст для graceful shutdown
	ctx    context.Context
	cancel context.CancelFunc
}

func NewHub(registry Registry) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		registry:   registry,
		clients:    make(map[uuid.UUID]*Client),
		groups:     make(map[uuid.UUID]map[uuid.UUID]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Run запускает цикл регистрации соединений
func (h *Hub) Run() {
	for {
		select {
		case <-h.ctx.Done():
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)
		}
	}
}

// Stop останавливает hub и закрывает все соединения
func (h *Hub) Stop() {
	h.cancel()

	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range h.clients {
		close(client.Send)
		if client.Conn != nil {
			client.Conn.Close()
		}
	}
	h.clients = make(map[uuid.UUID]*Client)
	h.groups = make(map[uuid.UUID]map[uuid.UUID]*Client)
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client.ID] = client

	log.Printf("Client connected: %s (user %s)", client.ID, client.UserID)
}

// unregisterClient атомарно убирает соединение из всех групп,
// после этого ни один Publish его уже не увидит
func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.ID]; !ok {
		return
	}

	for _, groupID := range client.Groups() {
		h.removeFromGroupUnsafe(client, groupID)
	}

	delete(h.clients, client.ID)
	close(client.Send)

	log.Printf("Client disconnected: %s (user %s)", client.ID, client.UserID)
}

// JoinGroup присоединяет соединение к группе после проверки членства.
// Чужая группа отклоняется, повторное присоединение - no-op.
func (h *Hub) JoinGroup(client *Client, groupID uuid.UUID) error {
	member, err := h.registry.IsMember(groupID, client.UserID)
	if err != nil {
		return err
	}
	if !member {
		return ErrAuthorization
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.ID]; !ok {
		// Соединение уже разорвано
		return nil
	}

	if client.InGroup(groupID) {
		return nil
	}

	if _, ok := h.groups[groupID]; !ok {
		h.groups[groupID] = make(map[uuid.UUID]*Client)
	}
	h.groups[groupID][client.ID] = client

	client.mu.Lock()
	client.groups[groupID] = true
	client.mu.Unlock()

	return nil
}

func (h *Hub) LeaveGroup(client *Client, groupID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.removeFromGroupUnsafe(client, groupID)
}

func (h *Hub) removeFromGroupUnsafe(client *Client, groupID uuid.UUID) {
	group, ok := h.groups[groupID]
	if !ok {
		return
	}

	if _, ok := group[client.ID]; !ok {
		return
	}

	delete(group, client.ID)
	if len(group) == 0 {
		delete(h.groups, groupID)
	}

	client.mu.Lock()
	delete(client.groups, groupID)
	client.mu.Unlock()
}

// Publish раздаёт событие всем присоединённым к группе соединениям,
// включая соединения отправителя. Доставка по каждому соединению
// независимая и неблокирующая: переполненная очередь теряет событие,
// клиент восстановится перезапросом истории.
//
// Итерация идёт под RLock: это снимок состава группы на момент вызова
// и гарантия, что канал не закрыт параллельным unregister.
func (h *Hub) Publish(groupID uuid.UUID, data []byte) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for _, client := range h.groups[groupID] {
		if err := client.enqueue(data); err != nil {
			log.Printf("Client %s dropped event for group %s: %v", client.ID, groupID, err)
			continue
		}
		delivered++
	}
	return delivered
}

// ActiveMembers возвращает пользователей с живым соединением в группе
func (h *Hub) ActiveMembers(groupID uuid.UUID) []uuid.UUID {
	h.mu.RLock()
	defer h.mu.RUnlock()

	seen := make(map[uuid.UUID]bool)
	users := make([]uuid.UUID, 0)
	for _, client := range h.groups[groupID] {
		if !seen[client.UserID] {
			seen[client.UserID] = true
			users = append(users, client.UserID)
		}
	}
	return users
}
