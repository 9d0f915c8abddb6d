package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jordanlt/studysync/internal/chat"
	"github.com/jordanlt/studysync/internal/database"
	"github.com/jordanlt/studysync/internal/handlers/dto"
	"github.com/jordanlt/studysync/internal/middleware"
)

// Publisher раздаёт событие по живым соединениям группы
type Publisher interface {
	Publish(groupID uuid.UUID, data []byte) int
}

// MessageHandler - шлюз чата: отправка и история, обе операции
// только для участников группы
type MessageHandler struct {
	store    database.MessageStore
	registry database.GroupRegistry
	users    database.UserDirectory
	pub      Publisher
}

func NewMessageHandler(store database.MessageStore, registry database.GroupRegistry, users database.UserDirectory, pub Publisher) *MessageHandler {
	return &MessageHandler{
		store:    store,
		registry: registry,
		users:    users,
		pub:      pub,
	}
}

// SendMessage сохраняет сообщение и раздаёт его по push-каналу.
// Ответ HTTP и push-событие несут одну и ту же запись: клиент
// дедуплицирует по id.
func (h *MessageHandler) SendMessage(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	groupID, ok := h.authorize(c, userID)
	if !ok {
		return
	}

	var req dto.MessageCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.GetUser(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve sender"})
		return
	}

	message, err := h.store.AppendMessage(groupID, userID, user.FullName, req.Content)
	if err != nil {
		if errors.Is(err, chat.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save message"})
		return
	}

	response := dto.NewMessageResponse(message)

	// Сообщение уже сохранено: сбой рассылки не должен ронять запрос,
	// отставшие клиенты доберут историю
	if data, err := chat.NewMessageEvent(groupID, response); err == nil {
		h.pub.Publish(groupID, data)
	} else {
		log.Printf("Failed to encode new_message event: %v", err)
	}

	c.JSON(http.StatusCreated, response)
}

// GetGroupMessages возвращает всю историю группы от старых к новым
func (h *MessageHandler) GetGroupMessages(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	groupID, ok := h.authorize(c, userID)
	if !ok {
		return
	}

	messages, err := h.store.ListMessages(groupID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get messages"})
		return
	}

	result := make([]dto.MessageResponse, len(messages))
	for i := range messages {
		result[i] = dto.NewMessageResponse(&messages[i])
	}

	c.JSON(http.StatusOK, gin.H{"messages": result})
}

// authorize разбирает :id и проверяет членство; при отказе сама пишет ответ
func (h *MessageHandler) authorize(c *gin.Context, userID uuid.UUID) (uuid.UUID, bool) {
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid group id"})
		return uuid.Nil, false
	}

	member, err := h.registry.IsMember(groupID, userID)
	if err != nil {
		if errors.Is(err, chat.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "group not found"})
			return uuid.Nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check membership"})
		return uuid.Nil, false
	}

	if !member {
		c.JSON(http.StatusForbidden, gin.H{"error": "you are not a member of this group"})
		return uuid.Nil, false
	}

	return groupID, true
}
