package api_router

import (
	"time"

	"github.com/haierkeys/fast-note-offline-client/internal/domain"
	"github.com/haierkeys/fast-note-offline-client/pkg/convert"
)

// NoteView 笔记的对外视图
type NoteView struct {
	ID         string              `json:"id"`
	Title      string              `json:"title"`
	Content    string              `json:"content"`
	Type       domain.NoteType     `json:"type"`
	Color      domain.NoteColor    `json:"color"`
	Pinned     bool                `json:"pinned"`
	Archived   bool                `json:"archived"`
	Deleted    bool                `json:"deleted"`
	Metadata   domain.NoteMetadata `json:"metadata"`
	SyncStatus domain.SyncStatus   `json:"syncStatus"`
	CreatedAt  time.Time           `json:"createdAt"`
	UpdatedAt  time.Time           `json:"updatedAt"`
	DeletedAt  *time.Time          `json:"deletedAt,omitempty"`
}

func toNoteView(note *domain.Note) *NoteView {
	view := &NoteView{}
	_ = convert.StructCopy(view, note)
	return view
}

func toNoteViews(notes []*domain.Note) []*NoteView {
	views := make([]*NoteView, 0, len(notes))
	for _, note := range notes {
		views = append(views, toNoteView(note))
	}
	return views
}
