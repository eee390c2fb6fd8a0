package dao

import (
	"context"
	"time"

	"github.com/haierkeys/fast-note-offline-client/internal/domain"
	"github.com/haierkeys/fast-note-offline-client/internal/model"
	"github.com/haierkeys/fast-note-offline-client/pkg/timex"
)

// SnapshotVersion 当前导出格式版本
const SnapshotVersion = 1

// SnapshotExport 导出用户的全部数据
func (d *Dao) SnapshotExport(ctx context.Context, uid int64) (*domain.Snapshot, error) {
	snapshot := &domain.Snapshot{
		Version:    SnapshotVersion,
		ExportedAt: time.Now(),
		UID:        uid,
	}

	var noteRows []*model.Note
	if err := d.db.WithContext(ctx).Where("uid = ?", uid).Order("created_at ASC, id ASC").Find(&noteRows).Error; err != nil {
		return nil, err
	}
	noteIDs := make([]string, 0, len(noteRows))
	for _, row := range noteRows {
		snapshot.Notes = append(snapshot.Notes, d.noteToDomain(row))
		noteIDs = append(noteIDs, row.ID)
	}

	var labelRows []*model.Label
	if err := d.db.WithContext(ctx).Where("uid = ?", uid).Order("created_at ASC, id ASC").Find(&labelRows).Error; err != nil {
		return nil, err
	}
	for _, row := range labelRows {
		snapshot.Labels = append(snapshot.Labels, labelToDomain(row))
	}

	if len(noteIDs) > 0 {
		var linkRows []*model.NoteLabel
		if err := d.db.WithContext(ctx).Where("note_id IN ?", noteIDs).Order("id ASC").Find(&linkRows).Error; err != nil {
			return nil, err
		}
		for _, row := range linkRows {
			snapshot.NoteLabels = append(snapshot.NoteLabels, noteLabelToDomain(row))
		}
	}

	var prefRows []*model.Preference
	if err := d.db.WithContext(ctx).Where("uid = ?", uid).Order("key ASC").Find(&prefRows).Error; err != nil {
		return nil, err
	}
	for _, row := range prefRows {
		snapshot.Preferences = append(snapshot.Preferences, preferenceToDomain(row))
	}

	return snapshot, nil
}

// SnapshotImport 在单个事务内写入快照，任一失败全部回滚
func (d *Dao) SnapshotImport(ctx context.Context, uid int64, snapshot *domain.Snapshot) error {
	tx := d.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	for _, note := range snapshot.Notes {
		note.UID = uid
		m, err := d.noteToModel(note)
		if err != nil {
			tx.Rollback()
			return err
		}
		if err := tx.Save(m).Error; err != nil {
			tx.Rollback()
			return err
		}
	}
	for _, label := range snapshot.Labels {
		label.UID = uid
		if err := tx.Save(labelToModel(label)).Error; err != nil {
			tx.Rollback()
			return err
		}
	}
	for _, link := range snapshot.NoteLabels {
		m := &model.NoteLabel{ID: link.ID, NoteID: link.NoteID, LabelID: link.LabelID}
		if err := tx.Save(m).Error; err != nil {
			tx.Rollback()
			return err
		}
	}
	for _, pref := range snapshot.Preferences {
		m := &model.Preference{
			UID:       uid,
			Key:       pref.Key,
			Value:     pref.Value,
			UpdatedAt: timex.Time(pref.UpdatedAt),
		}
		if err := tx.Where("uid = ? AND key = ?", uid, pref.Key).Delete(&model.Preference{}).Error; err != nil {
			tx.Rollback()
			return err
		}
		if err := tx.Create(m).Error; err != nil {
			tx.Rollback()
			return err
		}
	}

	return tx.Commit().Error
}
