package repository

import (
	"context"

	"collab_web/internal/models"
	"collab_web/internal/storage"
)

type RoomRepository interface {
	Create(ctx context.Context, room *models.Room) error
	FindByID(ctx context.Context, id string) (*models.Room, error)
	FindAll(ctx context.Context) ([]models.Room, error)
}

type roomRepository struct {
	baseRepository
}

func NewRoomRepository(db *storage.DB) RoomRepository {
	return &roomRepository{baseRepository{db: db}}
}

func (r *roomRepository) Create(ctx context.Context, room *models.Room) error {
	return r.create(ctx, room)
}

func (r *roomRepository) FindByID(ctx context.Context, id string) (*models.Room, error) {
	var room models.Room
	if err := r.first(ctx, &room, "id = ?", id); err != nil {
		return nil, err
	}
	return &room, nil
}

// FindAll 查詢所有房間，最新的在前
func (r *roomRepository) FindAll(ctx context.Context) ([]models.Room, error) {
	var rooms []models.Room
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&rooms).Error
	return rooms, err
}
