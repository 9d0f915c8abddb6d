package models

import (
	"github.com/google/uuid"
	"time"
)

type Message struct {
	ID      uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	GroupID uuid.UUID `gorm:"type:uuid;not null;index"`
	UserID  uuid.UUID `gorm:"type:uuid;not null"`
	// Снимок имени на момент отправки, не обновляется при переименовании
	UserName  string `gorm:"not null"`
	Content   string `gorm:"not null"`
	Seq       int64  `gorm:"autoIncrement;uniqueIndex"`
	CreatedAt time.Time

	Group Group `gorm:"foreignKey:GroupID"`
}
