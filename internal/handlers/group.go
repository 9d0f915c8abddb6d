package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jordanlt/studysync/internal/chat"
	"github.com/jordanlt/studysync/internal/database"
	"github.com/jordanlt/studysync/internal/handlers/dto"
	"github.com/jordanlt/studysync/internal/middleware"
	"github.com/jordanlt/studysync/internal/models"
)

type GroupHandler struct {
	db  *database.Database
	hub *chat.Hub
}

func NewGroupHandler(db *database.Database, hub *chat.Hub) *GroupHandler {
	return &GroupHandler{db: db, hub: hub}
}

// CreateGroup создает новую группу, создатель сразу участник
func (h *GroupHandler) CreateGroup(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	var req dto.GroupCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	group := &models.Group{
		Name:        req.Name,
		Description: req.Description,
		CreatedBy:   userID,
		CreatedAt:   time.Now(),
	}

	if err := h.db.CreateGroup(group); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create group"})
		return
	}

	fullGroup, err := h.db.GetGroup(group.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load group"})
		return
	}

	c.JSON(http.StatusCreated, formatGroupResponse(fullGroup))
}

// GetMyGroups возвращает группы пользователя
func (h *GroupHandler) GetMyGroups(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	groups, err := h.db.GetUserGroups(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get groups"})
		return
	}

	result := make([]gin.H, len(groups))
	for i := range groups {
		result[i] = formatGroupResponse(&groups[i])
	}

	c.JSON(http.StatusOK, gin.H{"groups": result})
}

// JoinGroup добавляет пользователя в участники группы
func (h *GroupHandler) JoinGroup(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid group id"})
		return
	}

	member, err := h.db.IsMember(groupID, userID)
	if err != nil {
		if errors.Is(err, chat.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "group not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check membership"})
		return
	}

	if member {
		c.JSON(http.StatusOK, gin.H{"message": "already a member"})
		return
	}

	if err := h.db.AddMember(groupID, userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to join group"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "joined group successfully"})
}

// GetGroupMembers возвращает участников в порядке вступления
func (h *GroupHandler) GetGroupMembers(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid group id"})
		return
	}

	group, err := h.db.GetGroup(groupID)
	if err != nil {
		if errors.Is(err, chat.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "group not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load group"})
		return
	}

	isMember := false
	for _, m := range group.Members {
		if m.UserID == userID {
			isMember = true
			break
		}
	}
	if !isMember {
		c.JSON(http.StatusForbidden, gin.H{"error": "you are not a member of this group"})
		return
	}

	active := h.hub.ActiveMembers(groupID)
	online := make(map[uuid.UUID]bool, len(active))
	for _, id := range active {
		online[id] = true
	}

	members := make([]gin.H, len(group.Members))
	for i, m := range group.Members {
		members[i] = gin.H{
			"id":         m.UserID,
			"full_name":  m.User.FullName,
			"joined_at":  m.JoinedAt,
			"is_online":  online[m.UserID],
			"is_creator": m.UserID == group.CreatedBy,
		}
	}

	c.JSON(http.StatusOK, gin.H{"members": members})
}

// formatGroupResponse форматирует ответ для группы
func formatGroupResponse(group *models.Group) gin.H {
	memberIDs := make([]uuid.UUID, len(group.Members))
	for i, m := range group.Members {
		memberIDs[i] = m.UserID
	}

	return gin.H{
		"id":          group.ID,
		"name":        group.Name,
		"description": group.Description,
		"created_by":  group.CreatedBy,
		"created_at":  group.CreatedAt,
		"member_ids":  memberIDs,
	}
}
