// Package storage 建立資料庫連線。
package storage

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"collab_web/pkg/config"
)

// DB 包裝 gorm 連線
type DB struct {
	*gorm.DB
}

// Open 依設定的 driver 開啟資料庫
func Open(cfg config.DBConfig) (*DB, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return NewPostgresDB(cfg.Host, cfg.User, cfg.Password, cfg.Name, cfg.Port)
	case config.DriverSQLite:
		return NewSQLiteDB(cfg.Path)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}
}

func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// AutoMigrate 自動遷移資料庫結構
func (db *DB) AutoMigrate(models ...interface{}) error {
	return db.DB.AutoMigrate(models...)
}
