package database

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jordanlt/studysync/internal/chat"
	"github.com/jordanlt/studysync/internal/models"
)

// AppendMessage добавляет сообщение в журнал группы.
// Порядковый номер Seq выдаёт база, поэтому конкурентные вставки
// получают строгий общий порядок независимо от точности часов.
func (d *Database) AppendMessage(groupID, userID uuid.UUID, userName, content string) (*models.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, chat.ErrValidation
	}

	message := &models.Message{
		GroupID:   groupID,
		UserID:    userID,
		UserName:  userName,
		Content:   content,
		CreatedAt: time.Now(),
	}

	if err := d.db.Create(message).Error; err != nil {
		return nil, err
	}
	return message, nil
}

// ListMessages возвращает всю историю группы от старых к новым.
// Равные created_at упорядочиваются по Seq, то есть по порядку вставки.
func (d *Database) ListMessages(groupID uuid.UUID) ([]models.Message, error) {
	var messages []models.Message

	err := d.db.
		Where("group_id = ?", groupID).
		Order("created_at ASC").
		Order("seq ASC").
		Find(&messages).Error

	if err != nil {
		return nil, err
	}
	return messages, nil
}
