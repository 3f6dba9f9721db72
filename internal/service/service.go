package service

import (
	"log/slog"

	"collab_web/internal/repository"
)

type Services struct {
	RoomService *RoomService
}

func NewServices(repos *repository.Repositories, logger *slog.Logger) *Services {
	return &Services{
		RoomService: NewRoomService(repos.Room, repos.Message, logger),
	}
}
