package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/jordanlt/studysync/internal/models"
)

// MessageCreateRequest - входящее сообщение
type MessageCreateRequest struct {
	Content string `json:"content" binding:"required"`
}

// MessageResponse - полная запись сообщения, одна и та же
// в ответе на POST и в push-событии new_message
type MessageResponse struct {
	ID        uuid.UUID `json:"id"`
	GroupID   uuid.UUID `json:"group_id"`
	UserID    uuid.UUID `json:"user_id"`
	UserName  string    `json:"user_name"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func NewMessageResponse(msg *models.Message) MessageResponse {
	return MessageResponse{
		ID:        msg.ID,
		GroupID:   msg.GroupID,
		UserID:    msg.UserID,
		UserName:  msg.UserName,
		Content:   msg.Content,
		CreatedAt: msg.CreatedAt,
	}
}
