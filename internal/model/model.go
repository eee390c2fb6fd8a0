// Package model 定义数据模型
package model

import (
	"gorm.io/gorm"
)

// AutoMigrate 迁移全部六张本地表
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Note{},
		&Label{},
		&NoteLabel{},
		&SyncQueue{},
		&Preference{},
		&CachedResponse{},
	)
}
