package domain

import "time"

// Label 标签领域实体
// 名称在同一用户下唯一（不区分大小写）
type Label struct {
	ID         string
	UID        int64
	Name       string
	SyncStatus SyncStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NoteLabel 笔记与标签的关联
// 同一 (note, label) 对至多一条关联
type NoteLabel struct {
	ID      string
	NoteID  string
	LabelID string
}
