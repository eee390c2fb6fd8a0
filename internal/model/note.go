package model

import (
	"github.com/haierkeys/fast-note-offline-client/pkg/timex"
)

const TableNameNote = "note"

// Note mapped from table <note>
type Note struct {
	ID         string      `gorm:"column:id;primaryKey" json:"id" form:"id"`
	UID        int64       `gorm:"column:uid;not null;index:idx_note_uid" json:"uid" form:"uid"`
	Title      string      `gorm:"column:title" json:"title" form:"title"`
	Content    string      `gorm:"column:content" json:"content" form:"content"`
	Type       string      `gorm:"column:type;not null;default:text" json:"type" form:"type"`
	Color      string      `gorm:"column:color;not null;default:default" json:"color" form:"color"`
	Pinned     bool        `gorm:"column:pinned;default:false" json:"pinned" form:"pinned"`
	Archived   bool        `gorm:"column:archived;default:false" json:"archived" form:"archived"`
	Deleted    bool        `gorm:"column:deleted;default:false;index:idx_note_deleted" json:"deleted" form:"deleted"`
	Metadata   string      `gorm:"column:metadata" json:"metadata" form:"metadata"`
	SyncStatus string      `gorm:"column:sync_status;not null;default:pending" json:"syncStatus" form:"syncStatus"`
	CreatedAt  timex.Time  `gorm:"column:created_at;type:datetime;default:NULL;autoCreateTime:false" json:"createdAt" form:"createdAt"`
	UpdatedAt  timex.Time  `gorm:"column:updated_at;type:datetime;default:NULL;autoUpdateTime:false;index:idx_note_updated_at" json:"updatedAt" form:"updatedAt"`
	DeletedAt  *timex.Time `gorm:"column:deleted_at;type:datetime;default:NULL" json:"deletedAt" form:"deletedAt"`
}

// TableName Note's table name
func (*Note) TableName() string {
	return TableNameNote
}
