package collab

import "context"

// Room 是伺服器端追蹤的協作頻道
type Room struct {
	ID   string `json:"room_id"`
	Name string `json:"name"`
}

// Message 是房間中的一則訊息，順序即伺服器回傳的列表順序
type Message struct {
	User    string `json:"user"`
	Content string `json:"content"`
}

// Backend 是 Session 使用的遠端 API
type Backend interface {
	CreateRoom(ctx context.Context, name string) (string, error)
	GetRoom(ctx context.Context, id string) (*Room, error)
	GetMessages(ctx context.Context, roomID string) ([]Message, error)
	AddMessage(ctx context.Context, roomID, content, user string) error
}
