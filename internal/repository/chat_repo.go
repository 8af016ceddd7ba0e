package repository

import (
	"payfesa/internal/models"

	"gorm.io/gorm"
)

type ChatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

func (r *ChatRepository) Create(m *models.ChatMessage) error {
	return r.db.Create(m).Error
}

func (r *ChatRepository) ListByGroup(groupID uint, limit, offset int) ([]models.ChatMessage, error) {
	var list []models.ChatMessage
	err := r.db.Where("group_id = ?", groupID).
		Preload("User").
		Order("created_at DESC").Limit(limit).Offset(offset).
		Find(&list).Error
	return list, err
}
