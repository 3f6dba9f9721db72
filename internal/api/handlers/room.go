package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"collab_web/internal/service"
)

// RoomHandler 處理與協作房間相關的請求
type RoomHandler struct {
	roomService *service.RoomService
	logger      *slog.Logger
}

// NewRoomHandler 創建一個新的 RoomHandler 實例
func NewRoomHandler(roomService *service.RoomService, logger *slog.Logger) *RoomHandler {
	return &RoomHandler{
		roomService: roomService,
		logger:      logger.With("component", "room-handler"),
	}
}

// CreateRoom 處理創建新房間的請求
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	var input struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	room, err := h.roomService.CreateRoom(c.Request.Context(), input.Name)
	if err != nil {
		h.writeError(c, err, "創建房間失敗")
		return
	}

	c.JSON(http.StatusCreated, room)
}

// GetRoom 處理獲取房間訊息的請求
func (h *RoomHandler) GetRoom(c *gin.Context) {
	room, err := h.roomService.GetRoom(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err, "獲取房間失敗")
		return
	}

	c.JSON(http.StatusOK, room)
}

// ListRooms 處理獲取房間列表的請求
func (h *RoomHandler) ListRooms(c *gin.Context) {
	rooms, err := h.roomService.ListRooms(c.Request.Context())
	if err != nil {
		h.writeError(c, err, "獲取房間列表失敗")
		return
	}

	c.JSON(http.StatusOK, gin.H{"rooms": rooms})
}

// GetMessages 處理獲取房間訊息列表的請求
func (h *RoomHandler) GetMessages(c *gin.Context) {
	messages, err := h.roomService.GetMessages(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err, "無法取得房間訊息")
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// AddMessage 處理新增訊息的請求
func (h *RoomHandler) AddMessage(c *gin.Context) {
	var input struct {
		Content string `json:"content" binding:"required"`
		User    string `json:"user" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.roomService.AddMessage(c.Request.Context(), c.Param("id"), input.Content, input.User)
	if err != nil {
		h.writeError(c, err, "新增訊息失敗")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "ok"})
}

// writeError 把 service 錯誤轉成 HTTP 狀態碼
func (h *RoomHandler) writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrRoomNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Error("request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
