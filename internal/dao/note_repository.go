package dao

import (
	"context"
	"time"

	"github.com/haierkeys/fast-note-offline-client/internal/domain"
	"github.com/haierkeys/fast-note-offline-client/internal/model"
	"github.com/haierkeys/fast-note-offline-client/pkg/code"
	xerrors "github.com/haierkeys/fast-note-offline-client/pkg/errors"
	"github.com/haierkeys/fast-note-offline-client/pkg/timex"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// noteToModel 领域实体转存储模型
func (d *Dao) noteToModel(n *domain.Note) (*model.Note, error) {
	content, err := d.sealContent(n.Content)
	if err != nil {
		return nil, err
	}
	metadata, err := sonic.MarshalString(n.Metadata)
	if err != nil {
		return nil, xerrors.NewAppError(code.ErrorValidation, err)
	}
	m := &model.Note{
		ID:         n.ID,
		UID:        n.UID,
		Title:      n.Title,
		Content:    content,
		Type:       string(n.Type),
		Color:      string(n.Color),
		Pinned:     n.Pinned,
		Archived:   n.Archived,
		Deleted:    n.Deleted,
		Metadata:   metadata,
		SyncStatus: string(n.SyncStatus),
		CreatedAt:  timex.Time(n.CreatedAt),
		UpdatedAt:  timex.Time(n.UpdatedAt),
	}
	if n.DeletedAt != nil {
		t := timex.Time(*n.DeletedAt)
		m.DeletedAt = &t
	}
	return m, nil
}

// noteToDomain 存储模型转领域实体
func (d *Dao) noteToDomain(m *model.Note) *domain.Note {
	n := &domain.Note{
		ID:         m.ID,
		UID:        m.UID,
		Title:      m.Title,
		Content:    d.openContent(m.Content),
		Type:       domain.NoteType(m.Type),
		Color:      domain.NoteColor(m.Color),
		Pinned:     m.Pinned,
		Archived:   m.Archived,
		Deleted:    m.Deleted,
		SyncStatus: domain.SyncStatus(m.SyncStatus),
		CreatedAt:  m.CreatedAt.Time(),
		UpdatedAt:  m.UpdatedAt.Time(),
	}
	if m.Metadata != "" {
		if err := sonic.UnmarshalString(m.Metadata, &n.Metadata); err != nil {
			d.logger.Warn("note metadata decode failed",
				zap.String("noteId", m.ID), zap.Error(err))
		}
	}
	if m.DeletedAt != nil {
		t := m.DeletedAt.Time()
		n.DeletedAt = &t
	}
	return n
}

// nextStamp 推进 updated_at，保证同一记录上单调递增
func nextStamp(prev time.Time) time.Time {
	now := time.Now()
	if !now.After(prev) {
		now = prev.Add(time.Millisecond)
	}
	return now
}

// NoteCreate 创建笔记，落库即 pending
func (d *Dao) NoteCreate(ctx context.Context, note *domain.Note) (*domain.Note, error) {
	if err := d.validateContentLength(note.Content); err != nil {
		return nil, err
	}
	if note.ID == "" {
		note.ID = uuid.NewString()
	}
	now := time.Now()
	if note.CreatedAt.IsZero() {
		note.CreatedAt = now
	}
	note.UpdatedAt = now
	note.SyncStatus = domain.SyncStatusPending

	m, err := d.noteToModel(note)
	if err != nil {
		return nil, err
	}
	if err := d.db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return d.noteToDomain(m), nil
}

// NotePatch 合并补丁字段，推进 updated_at 并回落为 pending
func (d *Dao) NotePatch(ctx context.Context, id string, uid int64, patch domain.NotePatch) (*domain.Note, error) {
	var m model.Note
	err := d.db.WithContext(ctx).
		Where("id = ? AND uid = ?", id, uid).
		First(&m).Error
	if err != nil {
		return nil, wrapNotFound(err)
	}

	note := d.noteToDomain(&m)
	patch.ApplyTo(note)
	if err := d.validateContentLength(note.Content); err != nil {
		return nil, err
	}

	note.UpdatedAt = nextStamp(note.UpdatedAt)
	note.SyncStatus = domain.SyncStatusPending

	updated, err := d.noteToModel(note)
	if err != nil {
		return nil, err
	}
	if err := d.db.WithContext(ctx).
		Where("id = ? AND uid = ?", id, uid).
		Select("*").Updates(updated).Error; err != nil {
		return nil, err
	}
	return note, nil
}

// NoteGet 根据ID获取笔记
func (d *Dao) NoteGet(ctx context.Context, id string, uid int64) (*domain.Note, error) {
	var m model.Note
	err := d.db.WithContext(ctx).
		Where("id = ? AND uid = ?", id, uid).
		First(&m).Error
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return d.noteToDomain(&m), nil
}

// NoteList 按过滤条件获取笔记列表
func (d *Dao) NoteList(ctx context.Context, uid int64, filter domain.NoteFilter) ([]*domain.Note, error) {
	query := d.db.WithContext(ctx).Model(&model.Note{}).Where("uid = ?", uid)
	if !filter.IncludeDeleted {
		query = query.Where("deleted = ?", false)
	}
	if filter.Archived != nil {
		query = query.Where("archived = ?", *filter.Archived)
	}
	if filter.LabelID != "" {
		query = query.Where("id IN (?)",
			d.db.Model(&model.NoteLabel{}).Select("note_id").Where("label_id = ?", filter.LabelID))
	}
	if filter.Keyword != "" {
		kw := "%" + filter.Keyword + "%"
		// 内容经过可逆变换时无法下推到 SQL，改为读出后过滤
		if d.cipher != nil {
			query = query.Where("title LIKE ?", kw)
		} else {
			query = query.Where("title LIKE ? OR content LIKE ?", kw, kw)
		}
	}

	var rows []*model.Note
	if err := query.Order("pinned DESC, updated_at DESC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	notes := make([]*domain.Note, 0, len(rows))
	for _, row := range rows {
		notes = append(notes, d.noteToDomain(row))
	}
	if filter.Keyword != "" && d.cipher != nil {
		notes = filterNotesByKeyword(notes, filter.Keyword)
	}
	domain.SortNotes(notes)
	return notes, nil
}

func filterNotesByKeyword(notes []*domain.Note, keyword string) []*domain.Note {
	out := notes[:0]
	for _, n := range notes {
		if containsFold(n.Title, keyword) || containsFold(n.Content, keyword) {
			out = append(out, n)
		}
	}
	return out
}

// NoteSoftDelete 标记删除，记录进入回收站
func (d *Dao) NoteSoftDelete(ctx context.Context, id string, uid int64) (*domain.Note, error) {
	note, err := d.NoteGet(ctx, id, uid)
	if err != nil {
		return nil, err
	}
	now := nextStamp(note.UpdatedAt)
	note.Deleted = true
	note.DeletedAt = &now
	note.UpdatedAt = now
	note.SyncStatus = domain.SyncStatusPending

	err = d.db.WithContext(ctx).Model(&model.Note{}).
		Where("id = ? AND uid = ?", id, uid).
		Updates(map[string]any{
			"deleted":     true,
			"deleted_at":  timex.Time(now),
			"updated_at":  timex.Time(now),
			"sync_status": string(domain.SyncStatusPending),
		}).Error
	if err != nil {
		return nil, err
	}
	return note, nil
}

// NoteRestore 把软删除的笔记移出回收站
func (d *Dao) NoteRestore(ctx context.Context, id string, uid int64) (*domain.Note, error) {
	note, err := d.NoteGet(ctx, id, uid)
	if err != nil {
		return nil, err
	}
	now := nextStamp(note.UpdatedAt)
	note.Deleted = false
	note.DeletedAt = nil
	note.UpdatedAt = now
	note.SyncStatus = domain.SyncStatusPending

	err = d.db.WithContext(ctx).Model(&model.Note{}).
		Where("id = ? AND uid = ?", id, uid).
		Updates(map[string]any{
			"deleted":     false,
			"deleted_at":  nil,
			"updated_at":  timex.Time(now),
			"sync_status": string(domain.SyncStatusPending),
		}).Error
	if err != nil {
		return nil, err
	}
	return note, nil
}

// NoteHardDelete 物理删除笔记并级联清理标签关联
func (d *Dao) NoteHardDelete(ctx context.Context, id string, uid int64) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND uid = ?", id, uid).Delete(&model.Note{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return xerrors.NewAppError(code.ErrorNotFound, gorm.ErrRecordNotFound)
		}
		return tx.Where("note_id = ?", id).Delete(&model.NoteLabel{}).Error
	})
}

// NoteMarkSynced 对账完成后翻转同步状态，不动 updated_at
func (d *Dao) NoteMarkSynced(ctx context.Context, id string, uid int64) error {
	result := d.db.WithContext(ctx).Model(&model.Note{}).
		Where("id = ? AND uid = ?", id, uid).
		Update("sync_status", string(domain.SyncStatusSynced))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return xerrors.NewAppError(code.ErrorNotFound, gorm.ErrRecordNotFound)
	}
	return nil
}

// NoteMirror 远端权威记录原样落库，时间戳保持远端值
func (d *Dao) NoteMirror(ctx context.Context, note *domain.Note) error {
	note.SyncStatus = domain.SyncStatusSynced
	m, err := d.noteToModel(note)
	if err != nil {
		return err
	}
	return d.db.WithContext(ctx).Save(m).Error
}

// NotePurgeDeletedBefore 清理到期的墓碑记录
func (d *Dao) NotePurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	var ids []string
	err := d.db.WithContext(ctx).Model(&model.Note{}).
		Where("deleted = ? AND deleted_at IS NOT NULL AND deleted_at < ?", true, timex.Time(cutoff)).
		Pluck("id", &ids).Error
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}
	err = d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id IN ?", ids).Delete(&model.Note{}).Error; err != nil {
			return err
		}
		return tx.Where("note_id IN ?", ids).Delete(&model.NoteLabel{}).Error
	})
	if err != nil {
		return 0, err
	}
	return int64(len(ids)), nil
}
