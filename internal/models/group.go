package models

import (
	"github.com/google/uuid"
	"time"
)

type Group struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string    `gorm:"not null"`
	Description string
	CreatedBy   uuid.UUID
	CreatedAt   time.Time

	// Связи
	Members  []GroupMember `gorm:"foreignKey:GroupID"`
	Messages []Message     `gorm:"foreignKey:GroupID"`
}

// GroupMember - явная связующая запись вместо many2many,
// чтобы сохранять порядок вступления участников
type GroupMember struct {
	GroupID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	JoinedAt time.Time

	User User `gorm:"foreignKey:UserID"`
}
