package models

import (
	"gorm.io/gorm"
)

// Message 代表房間內的一則訊息。自增 ID 即為抵達順序。
type Message struct {
	gorm.Model
	RoomID  string `gorm:"index;not null;type:varchar(36)"`
	User    string `gorm:"type:varchar(100);not null"` // 作者顯示名稱，未經驗證
	Content string `gorm:"type:text;not null"`
}
