package collab

import "fmt"

// ValidationError 表示必填欄位為空，動作被拒絕且不會發出請求
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// NotFoundError 表示後端找不到指定的房間
type NotFoundError struct {
	RoomID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("room %q not found", e.RoomID)
}

// NetworkError 包裝任何請求失敗（連線錯誤、逾時、非預期的 HTTP 狀態）
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
