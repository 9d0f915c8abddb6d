package database

import (
	"github.com/google/uuid"
	"github.com/jordanlt/studysync/internal/models"
)

// MessageStore - журнал сообщений группы, только добавление и чтение
type MessageStore interface {
	AppendMessage(groupID, userID uuid.UUID, userName, content string) (*models.Message, error)
	ListMessages(groupID uuid.UUID) ([]models.Message, error)
}

// GroupRegistry - членство в группах, для авторизации отправки и чтения
type GroupRegistry interface {
	IsMember(groupID, userID uuid.UUID) (bool, error)
	ListMemberIDs(groupID uuid.UUID) ([]uuid.UUID, error)
}

// UserDirectory - справочник пользователей для снимка имени отправителя
type UserDirectory interface {
	GetUser(id uuid.UUID) (*models.User, error)
}
