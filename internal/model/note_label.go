package model

const TableNameNoteLabel = "note_label"

// NoteLabel mapped from table <note_label>
type NoteLabel struct {
	ID      string `gorm:"column:id;primaryKey" json:"id" form:"id"`
	NoteID  string `gorm:"column:note_id;not null;uniqueIndex:idx_note_label_pair,priority:1;index:idx_note_label_note" json:"noteId" form:"noteId"`
	LabelID string `gorm:"column:label_id;not null;uniqueIndex:idx_note_label_pair,priority:2;index:idx_note_label_label" json:"labelId" form:"labelId"`
}

// TableName NoteLabel's table name
func (*NoteLabel) TableName() string {
	return TableNameNoteLabel
}
