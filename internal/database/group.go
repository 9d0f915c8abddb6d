package database

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jordanlt/studysync/internal/chat"
	"github.com/jordanlt/studysync/internal/models"
	"gorm.io/gorm"
)

func (d *Database) CreateGroup(group *models.Group) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(group).Error; err != nil {
			return err
		}

		// Создатель сразу становится участником
		member := &models.GroupMember{
			GroupID:  group.ID,
			UserID:   group.CreatedBy,
			JoinedAt: time.Now(),
		}
		return tx.Create(member).Error
	})
}

func (d *Database) GetGroup(id uuid.UUID) (*models.Group, error) {
	var group models.Group
	err := d.db.
		Preload("Members", func(db *gorm.DB) *gorm.DB {
			return db.Order("joined_at ASC")
		}).
		Preload("Members.User").
		First(&group, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, chat.ErrNotFound
		}
		return nil, err
	}
	return &group, nil
}

func (d *Database) GetUserGroups(userID uuid.UUID) ([]models.Group, error) {
	var groups []models.Group

	err := d.db.
		Joins("JOIN group_members gm ON gm.group_id = groups.id").
		Where("gm.user_id = ?", userID).
		Order("groups.created_at ASC").
		Preload("Members", func(db *gorm.DB) *gorm.DB {
			return db.Order("joined_at ASC")
		}).
		Find(&groups).Error

	if err != nil {
		return nil, err
	}
	return groups, nil
}

// AddMember добавляет участника; повторное добавление - no-op.
// Удаления участников нет, членство только растёт.
func (d *Database) AddMember(groupID, userID uuid.UUID) error {
	var group models.Group
	if err := d.db.First(&group, "id = ?", groupID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return chat.ErrNotFound
		}
		return err
	}

	member := &models.GroupMember{
		GroupID:  groupID,
		UserID:   userID,
		JoinedAt: time.Now(),
	}

	err := d.db.Where("group_id = ? AND user_id = ?", groupID, userID).
		FirstOrCreate(member).Error
	return err
}

// IsMember проверяет членство пользователя в группе
func (d *Database) IsMember(groupID, userID uuid.UUID) (bool, error) {
	var count int64
	err := d.db.Model(&models.Group{}).Where("id = ?", groupID).Count(&count).Error
	if err != nil {
		return false, err
	}
	if count == 0 {
		return false, chat.ErrNotFound
	}

	err = d.db.Model(&models.GroupMember{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListMemberIDs возвращает участников в порядке вступления
func (d *Database) ListMemberIDs(groupID uuid.UUID) ([]uuid.UUID, error) {
	var members []models.GroupMember

	err := d.db.
		Where("group_id = ?", groupID).
		Order("joined_at ASC").
		Find(&members).Error
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(members))
	for i, m := range members {
		ids[i] = m.UserID
	}
	return ids, nil
}
