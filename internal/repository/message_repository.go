package repository

import (
	"context"

	"collab_web/internal/models"
	"collab_web/internal/storage"
)

type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	FindByRoomID(ctx context.Context, roomID string) ([]models.Message, error)
}

type messageRepository struct {
	baseRepository
}

func NewMessageRepository(db *storage.DB) MessageRepository {
	return &messageRepository{baseRepository{db: db}}
}

func (r *messageRepository) Create(ctx context.Context, message *models.Message) error {
	return r.create(ctx, message)
}

// FindByRoomID 依抵達順序回傳房間的所有訊息
func (r *messageRepository) FindByRoomID(ctx context.Context, roomID string) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.WithContext(ctx).Where("room_id = ?", roomID).Order("id asc").Find(&messages).Error
	return messages, err
}
