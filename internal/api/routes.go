package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"collab_web/internal/api/handlers"
	"collab_web/internal/middleware"
	"collab_web/internal/service"
)

// NewRouter 建立掛好中間件與路由的 Gin 引擎
func NewRouter(services *service.Services, logger *slog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(logger))
	SetupRoutes(r, services, logger)
	return r
}

func SetupRoutes(r *gin.Engine, services *service.Services, logger *slog.Logger) {
	// 初始化 handlers
	roomHandler := handlers.NewRoomHandler(services.RoomService, logger)

	// API 路由群組
	api := r.Group("/api")

	// 處理 404 錯誤
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "找不到該路徑",
		})
	})

	// 基本的健康檢查
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	// 協作房間相關
	rooms := api.Group("/rooms")
	{
		rooms.GET("", roomHandler.ListRooms)   // 獲取房間列表
		rooms.POST("", roomHandler.CreateRoom) // 創建房間
		rooms.GET("/:id", roomHandler.GetRoom) // 獲取房間信息

		// 房間訊息，客戶端以輪詢方式拉取
		rooms.GET("/:id/messages", roomHandler.GetMessages)
		rooms.POST("/:id/messages", roomHandler.AddMessage)
	}
}
