package model

import (
	"github.com/haierkeys/fast-note-offline-client/pkg/timex"
)

const TableNameLabel = "label"

// Label mapped from table <label>
type Label struct {
	ID         string     `gorm:"column:id;primaryKey" json:"id" form:"id"`
	UID        int64      `gorm:"column:uid;not null;uniqueIndex:idx_label_uid_name,priority:1" json:"uid" form:"uid"`
	Name       string     `gorm:"column:name;not null" json:"name" form:"name"`
	// NameLower 用于同用户下不区分大小写的唯一性
	NameLower  string     `gorm:"column:name_lower;not null;uniqueIndex:idx_label_uid_name,priority:2" json:"-"`
	SyncStatus string     `gorm:"column:sync_status;not null;default:pending" json:"syncStatus" form:"syncStatus"`
	CreatedAt  timex.Time `gorm:"column:created_at;type:datetime;default:NULL;autoCreateTime:false" json:"createdAt" form:"createdAt"`
	UpdatedAt  timex.Time `gorm:"column:updated_at;type:datetime;default:NULL;autoUpdateTime:false" json:"updatedAt" form:"updatedAt"`
}

// TableName Label's table name
func (*Label) TableName() string {
	return TableNameLabel
}
