package model

import (
	"github.com/haierkeys/fast-note-offline-client/pkg/timex"
)

const TableNameSyncQueue = "sync_queue"

// SyncQueue mapped from table <sync_queue>
type SyncQueue struct {
	ID          int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id" form:"id"`
	TargetTable string     `gorm:"column:table_name;not null;index:idx_sync_queue_record,priority:1" json:"tableName" form:"tableName"`
	RecordID    string     `gorm:"column:record_id;not null;index:idx_sync_queue_record,priority:2" json:"recordId" form:"recordId"`
	Operation   string     `gorm:"column:operation;not null" json:"operation" form:"operation"`
	Permanent   bool       `gorm:"column:permanent;default:false" json:"permanent" form:"permanent"`
	Payload     string     `gorm:"column:payload" json:"payload" form:"payload"`
	Retries     int        `gorm:"column:retries;not null;default:0" json:"retries" form:"retries"`
	CreatedAt   timex.Time `gorm:"column:created_at;type:datetime;default:NULL;autoCreateTime:false;index:idx_sync_queue_created_at" json:"createdAt" form:"createdAt"`
}

// TableName SyncQueue's table name
func (*SyncQueue) TableName() string {
	return TableNameSyncQueue
}
