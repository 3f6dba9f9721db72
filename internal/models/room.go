package models

import (
	"time"
)

// Room 表示一個協作房間，ID 由伺服器配發
type Room struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)"`
	Name      string    `gorm:"not null"`
	CreatedAt time.Time
	Messages  []Message `gorm:"foreignKey:RoomID"` // 房間內的訊息
}
