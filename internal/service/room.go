package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"collab_web/internal/models"
	"collab_web/internal/repository"
)

// MaxUserLength 是作者顯示名稱的最大字元數
const MaxUserLength = 100

var (
	// ErrInvalidInput 表示必填欄位為空或格式不符
	ErrInvalidInput = errors.New("invalid input")
	// ErrRoomNotFound 表示房間不存在
	ErrRoomNotFound = errors.New("房間不存在")
)

// Room 代表一個協作房間
type Room struct {
	ID        string    `json:"room_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Message 是回傳給客戶端的訊息，只包含作者與內容
type Message struct {
	User    string `json:"user"`
	Content string `json:"content"`
}

type RoomService struct {
	roomRepo    repository.RoomRepository
	messageRepo repository.MessageRepository
	logger      *slog.Logger
}

func NewRoomService(roomRepo repository.RoomRepository, messageRepo repository.MessageRepository, logger *slog.Logger) *RoomService {
	return &RoomService{
		roomRepo:    roomRepo,
		messageRepo: messageRepo,
		logger:      logger.With("component", "room-service"),
	}
}

// CreateRoom 建立房間並配發 ID
func (s *RoomService) CreateRoom(ctx context.Context, name string) (*Room, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: 房間名稱不可為空", ErrInvalidInput)
	}

	roomModel := &models.Room{
		ID:   uuid.NewString(),
		Name: name,
	}
	if err := s.roomRepo.Create(ctx, roomModel); err != nil {
		return nil, fmt.Errorf("create room: %w", err)
	}

	s.logger.Info("room created", "room_id", roomModel.ID, "name", name)
	return convertModelToRoom(roomModel), nil
}

func (s *RoomService) GetRoom(ctx context.Context, roomID string) (*Room, error) {
	roomModel, err := s.findRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	return convertModelToRoom(roomModel), nil
}

// ListRooms 回傳所有房間，最新的在前
func (s *RoomService) ListRooms(ctx context.Context) ([]Room, error) {
	roomModels, err := s.roomRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}

	rooms := make([]Room, 0, len(roomModels))
	for i := range roomModels {
		rooms = append(rooms, *convertModelToRoom(&roomModels[i]))
	}
	return rooms, nil
}

// GetMessages 依抵達順序回傳房間的完整訊息列表
func (s *RoomService) GetMessages(ctx context.Context, roomID string) ([]Message, error) {
	if _, err := s.findRoom(ctx, roomID); err != nil {
		return nil, err
	}

	messageModels, err := s.messageRepo.FindByRoomID(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("get messages: %w", err)
	}

	messages := make([]Message, 0, len(messageModels))
	for _, m := range messageModels {
		messages = append(messages, Message{User: m.User, Content: m.Content})
	}
	return messages, nil
}

// AddMessage 在房間末端新增一則訊息
func (s *RoomService) AddMessage(ctx context.Context, roomID, content, user string) error {
	content = strings.TrimSpace(content)
	user = strings.TrimSpace(user)
	if content == "" {
		return fmt.Errorf("%w: 訊息內容不可為空", ErrInvalidInput)
	}
	if user == "" {
		return fmt.Errorf("%w: 使用者名稱不可為空", ErrInvalidInput)
	}
	if utf8.RuneCountInString(user) > MaxUserLength {
		return fmt.Errorf("%w: 使用者名稱過長", ErrInvalidInput)
	}

	if _, err := s.findRoom(ctx, roomID); err != nil {
		return err
	}

	message := &models.Message{
		RoomID:  roomID,
		User:    user,
		Content: content,
	}
	if err := s.messageRepo.Create(ctx, message); err != nil {
		return fmt.Errorf("add message: %w", err)
	}
	return nil
}

func (s *RoomService) findRoom(ctx context.Context, roomID string) (*models.Room, error) {
	roomModel, err := s.roomRepo.FindByID(ctx, roomID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find room: %w", err)
	}
	return roomModel, nil
}

func convertModelToRoom(model *models.Room) *Room {
	return &Room{
		ID:        model.ID,
		Name:      model.Name,
		CreatedAt: model.CreatedAt,
	}
}
