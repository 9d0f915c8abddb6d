// Package transcript реализует клиентский контракт доставки:
// одно и то же сообщение приходит дважды - синхронным ответом на POST
// и событием new_message по push-каналу. Transcript склеивает оба пути
// в одну ленту без дублей, ключ - id сообщения.
package transcript

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Message - запись ленты, совпадает по полям с MessageResponse сервера
type Message struct {
	ID        uuid.UUID `json:"id"`
	GroupID   uuid.UUID `json:"group_id"`
	UserID    uuid.UUID `json:"user_id"`
	UserName  string    `json:"user_name"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type Transcript struct {
	mu       sync.Mutex
	messages []Message
	seen     map[uuid.UUID]bool
}

func New() *Transcript {
	return &Transcript{
		seen: make(map[uuid.UUID]bool),
	}
}

// Append добавляет сообщение в порядке прихода, с какого бы пути оно
// ни пришло первым. Вторая копия того же id отбрасывается.
// Возвращает true, если лента изменилась.
func (t *Transcript) Append(msg Message) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.seen[msg.ID] {
		return false
	}

	t.seen[msg.ID] = true
	t.messages = append(t.messages, msg)
	return true
}

// Reset заменяет ленту свежей историей с сервера.
// Вызывается после reconnect: пропущенные push-события и порядок
// восстанавливаются из единственного источника истины.
func (t *Transcript) Reset(history []Message) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.messages = make([]Message, 0, len(history))
	t.seen = make(map[uuid.UUID]bool, len(history))

	for _, msg := range history {
		if t.seen[msg.ID] {
			continue
		}
		t.seen[msg.ID] = true
		t.messages = append(t.messages, msg)
	}
}

// Messages возвращает копию ленты в текущем порядке
func (t *Transcript) Messages() []Message {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	return out
}

func (t *Transcript) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.messages)
}

func (t *Transcript) Contains(id uuid.UUID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.seen[id]
}
