package dao

import (
	"context"

	"github.com/haierkeys/fast-note-offline-client/internal/domain"
	"github.com/haierkeys/fast-note-offline-client/internal/model"
	"github.com/haierkeys/fast-note-offline-client/pkg/code"
	xerrors "github.com/haierkeys/fast-note-offline-client/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func noteLabelToDomain(m *model.NoteLabel) *domain.NoteLabel {
	return &domain.NoteLabel{
		ID:      m.ID,
		NoteID:  m.NoteID,
		LabelID: m.LabelID,
	}
}

// NoteLabelAttach 建立关联，同一 (note, label) 对幂等返回已有关联
func (d *Dao) NoteLabelAttach(ctx context.Context, noteID, labelID string) (*domain.NoteLabel, error) {
	var existing model.NoteLabel
	err := d.db.WithContext(ctx).
		Where("note_id = ? AND label_id = ?", noteID, labelID).
		First(&existing).Error
	if err == nil {
		return noteLabelToDomain(&existing), nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	m := &model.NoteLabel{
		ID:      uuid.NewString(),
		NoteID:  noteID,
		LabelID: labelID,
	}
	if err := d.db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return noteLabelToDomain(m), nil
}

// NoteLabelDetach 解除关联
func (d *Dao) NoteLabelDetach(ctx context.Context, noteID, labelID string) error {
	result := d.db.WithContext(ctx).
		Where("note_id = ? AND label_id = ?", noteID, labelID).
		Delete(&model.NoteLabel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return xerrors.NewAppError(code.ErrorNotFound, gorm.ErrRecordNotFound)
	}
	return nil
}

// NoteLabelGet 根据ID获取关联
func (d *Dao) NoteLabelGet(ctx context.Context, id string) (*domain.NoteLabel, error) {
	var m model.NoteLabel
	err := d.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return noteLabelToDomain(&m), nil
}

// NoteLabelListByNote 获取笔记的全部关联
func (d *Dao) NoteLabelListByNote(ctx context.Context, noteID string) ([]*domain.NoteLabel, error) {
	var rows []*model.NoteLabel
	err := d.db.WithContext(ctx).
		Where("note_id = ?", noteID).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	links := make([]*domain.NoteLabel, 0, len(rows))
	for _, row := range rows {
		links = append(links, noteLabelToDomain(row))
	}
	return links, nil
}

// NoteLabelListByLabel 获取标签的全部关联
func (d *Dao) NoteLabelListByLabel(ctx context.Context, labelID string) ([]*domain.NoteLabel, error) {
	var rows []*model.NoteLabel
	err := d.db.WithContext(ctx).
		Where("label_id = ?", labelID).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	links := make([]*domain.NoteLabel, 0, len(rows))
	for _, row := range rows {
		links = append(links, noteLabelToDomain(row))
	}
	return links, nil
}

// NoteLabelMirror 远端权威关联原样落库
func (d *Dao) NoteLabelMirror(ctx context.Context, link *domain.NoteLabel) error {
	m := &model.NoteLabel{
		ID:      link.ID,
		NoteID:  link.NoteID,
		LabelID: link.LabelID,
	}
	return d.db.WithContext(ctx).Save(m).Error
}
