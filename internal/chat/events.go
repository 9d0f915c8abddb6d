package chat

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EventType определяет закрытый набор типов событий push-канала.
// Неизвестный тип отклоняется при декодировании, а не игнорируется.
type EventType string

const (
	// Входящие от клиента
	EventJoinGroup  EventType = "join_group"
	EventLeaveGroup EventType = "leave_group"

	// Исходящие к клиенту
	EventNewMessage EventType = "new_message"
	EventError      EventType = "error"
)

type InboundEvent struct {
	Type    EventType `json:"type"`
	GroupID uuid.UUID `json:"group_id"`
}

type OutboundEvent struct {
	Type      EventType       `json:"type"`
	GroupID   *uuid.UUID      `json:"group_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// DecodeInbound разбирает событие от клиента и проверяет его тип
func DecodeInbound(raw []byte) (*InboundEvent, error) {
	var ev InboundEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		return nil, ErrInvalidEvent
	}

	switch ev.Type {
	case EventJoinGroup, EventLeaveGroup:
		if ev.GroupID == uuid.Nil {
			return nil, ErrInvalidEvent
		}
		return &ev, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Type)
	}
}

// NewMessageEvent собирает событие new_message с полной записью сообщения
func NewMessageEvent(groupID uuid.UUID, message interface{}) ([]byte, error) {
	data, err := json.Marshal(message)
	if err != nil {
		return nil, err
	}

	ev := OutboundEvent{
		Type:      EventNewMessage,
		GroupID:   &groupID,
		Data:      data,
		Timestamp: time.Now(),
	}
	return json.Marshal(ev)
}

// ErrorEvent собирает событие error для отправки клиенту
func ErrorEvent(msg string) ([]byte, error) {
	data, err := json.Marshal(map[string]string{"error": msg})
	if err != nil {
		return nil, err
	}

	ev := OutboundEvent{
		Type:      EventError,
		Data:      data,
		Timestamp: time.Now(),
	}
	return json.Marshal(ev)
}
