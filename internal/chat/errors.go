package chat

import "errors"

var (
	// ErrValidation - пустое или некорректное содержимое сообщения
	ErrValidation = errors.New("message content is empty")

	// ErrAuthorization - пользователь не состоит в группе
	ErrAuthorization = errors.New("not a member of this group")

	// ErrNotFound - группа не существует
	ErrNotFound = errors.New("group not found")

	// ErrTransport - доставка по push-каналу не удалась для конкретного
	// соединения; никогда не поднимается до отправителя
	ErrTransport = errors.New("push delivery failed")

	ErrClientQueueFull = errors.New("client message queue is full")
	ErrInvalidEvent    = errors.New("invalid event format")
	ErrUnknownEvent    = errors.New("unknown event type")
)
