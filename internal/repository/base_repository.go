package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"collab_web/internal/storage"
)

// ErrNotFound 表示查無資料
var ErrNotFound = errors.New("record not found")

// baseRepository 提供各 repository 共用的 gorm 操作
type baseRepository struct {
	db *storage.DB
}

func (r *baseRepository) create(ctx context.Context, model interface{}) error {
	return r.db.WithContext(ctx).Create(model).Error
}

// first 查詢第一筆資料，並把 gorm.ErrRecordNotFound 轉成 ErrNotFound
func (r *baseRepository) first(ctx context.Context, dest interface{}, conds ...interface{}) error {
	err := r.db.WithContext(ctx).First(dest, conds...).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
