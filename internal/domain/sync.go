package domain

import "time"

// 同步队列目标表名
const (
	TableNote      = "note"
	TableLabel     = "label"
	TableNoteLabel = "note_label"
)

// Operation 队列条目操作类型
type Operation string

const (
	OperationCreate Operation = "create"
	OperationUpdate Operation = "update"
	OperationDelete Operation = "delete"
)

// SyncQueueEntry 出站变更账本条目
// 与对应的本地变更原子创建，由同步队列组件独占管理
type SyncQueueEntry struct {
	ID        int64
	TableName string
	RecordID  string
	Operation Operation
	// Permanent 仅对 delete 有意义：远端是否物理删除
	Permanent bool
	// Payload 待应用字段的 JSON 快照
	Payload []byte
	Retries  int
	CreatedAt time.Time
}
