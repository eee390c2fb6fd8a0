package remote

import (
	"github.com/haierkeys/fast-note-offline-client/internal/domain"
	"github.com/haierkeys/fast-note-offline-client/pkg/timex"
)

// noteDTO 笔记的线上传输结构
type noteDTO struct {
	ID         string              `json:"id"`
	UID        int64               `json:"uid"`
	Title      string              `json:"title"`
	Content    string              `json:"content"`
	Type       string              `json:"type"`
	Color      string              `json:"color"`
	Pinned     bool                `json:"pinned"`
	Archived   bool                `json:"archived"`
	Deleted    bool                `json:"deleted"`
	Metadata   domain.NoteMetadata `json:"metadata"`
	CreatedAt  timex.Time          `json:"createdAt"`
	UpdatedAt  timex.Time          `json:"updatedAt"`
	DeletedAt  *timex.Time         `json:"deletedAt,omitempty"`
}

func noteToDTO(n *domain.Note) *noteDTO {
	dto := &noteDTO{
		ID:        n.ID,
		UID:       n.UID,
		Title:     n.Title,
		Content:   n.Content,
		Type:      string(n.Type),
		Color:     string(n.Color),
		Pinned:    n.Pinned,
		Archived:  n.Archived,
		Deleted:   n.Deleted,
		Metadata:  n.Metadata,
		CreatedAt: timex.Time(n.CreatedAt),
		UpdatedAt: timex.Time(n.UpdatedAt),
	}
	if n.DeletedAt != nil {
		t := timex.Time(*n.DeletedAt)
		dto.DeletedAt = &t
	}
	return dto
}

func (dto *noteDTO) toDomain() *domain.Note {
	n := &domain.Note{
		ID:         dto.ID,
		UID:        dto.UID,
		Title:      dto.Title,
		Content:    dto.Content,
		Type:       domain.NoteType(dto.Type),
		Color:      domain.NoteColor(dto.Color),
		Pinned:     dto.Pinned,
		Archived:   dto.Archived,
		Deleted:    dto.Deleted,
		Metadata:   dto.Metadata,
		SyncStatus: domain.SyncStatusSynced,
		CreatedAt:  dto.CreatedAt.Time(),
		UpdatedAt:  dto.UpdatedAt.Time(),
	}
	if dto.DeletedAt != nil {
		t := dto.DeletedAt.Time()
		n.DeletedAt = &t
	}
	return n
}

// labelDTO 标签的线上传输结构
type labelDTO struct {
	ID        string     `json:"id"`
	UID       int64      `json:"uid"`
	Name      string     `json:"name"`
	CreatedAt timex.Time `json:"createdAt"`
	UpdatedAt timex.Time `json:"updatedAt"`
}

func labelToDTO(l *domain.Label) *labelDTO {
	return &labelDTO{
		ID:        l.ID,
		UID:       l.UID,
		Name:      l.Name,
		CreatedAt: timex.Time(l.CreatedAt),
		UpdatedAt: timex.Time(l.UpdatedAt),
	}
}

func (dto *labelDTO) toDomain() *domain.Label {
	return &domain.Label{
		ID:         dto.ID,
		UID:        dto.UID,
		Name:       dto.Name,
		SyncStatus: domain.SyncStatusSynced,
		CreatedAt:  dto.CreatedAt.Time(),
		UpdatedAt:  dto.UpdatedAt.Time(),
	}
}

// noteLabelDTO 关联的线上传输结构
type noteLabelDTO struct {
	ID      string `json:"id"`
	NoteID  string `json:"noteId"`
	LabelID string `json:"labelId"`
}

func noteLabelToDTO(l *domain.NoteLabel) *noteLabelDTO {
	return &noteLabelDTO{ID: l.ID, NoteID: l.NoteID, LabelID: l.LabelID}
}

func (dto *noteLabelDTO) toDomain() *domain.NoteLabel {
	return &domain.NoteLabel{ID: dto.ID, NoteID: dto.NoteID, LabelID: dto.LabelID}
}
