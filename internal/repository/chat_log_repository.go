package repository

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/randyf333/SylliAI/internal/model"
)

type ChatLogRepository struct {
	db *gorm.DB
}

func NewChatLogRepository(db *gorm.DB) *ChatLogRepository {
	return &ChatLogRepository{db: db}
}

func (r *ChatLogRepository) Create(entry *model.ChatLog) error {
	if err := r.db.Create(entry).Error; err != nil {
		return fmt.Errorf("create chat log failed: %w", err)
	}
	return nil
}

func (r *ChatLogRepository) ListByUserID(userID string, limit int) ([]model.ChatLog, error) {
	if limit <= 0 {
		limit = 100
	}
	var list []model.ChatLog
	if err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").Limit(limit).Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list chat logs failed: %w", err)
	}
	return list, nil
}
