package dao

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/haierkeys/fast-note-offline-client/internal/domain"
	"github.com/haierkeys/fast-note-offline-client/internal/model"
	"github.com/haierkeys/fast-note-offline-client/pkg/code"
	xerrors "github.com/haierkeys/fast-note-offline-client/pkg/errors"
	"github.com/haierkeys/fast-note-offline-client/pkg/timex"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func labelToModel(l *domain.Label) *model.Label {
	return &model.Label{
		ID:         l.ID,
		UID:        l.UID,
		Name:       l.Name,
		NameLower:  strings.ToLower(l.Name),
		SyncStatus: string(l.SyncStatus),
		CreatedAt:  timex.Time(l.CreatedAt),
		UpdatedAt:  timex.Time(l.UpdatedAt),
	}
}

func labelToDomain(m *model.Label) *domain.Label {
	return &domain.Label{
		ID:         m.ID,
		UID:        m.UID,
		Name:       m.Name,
		SyncStatus: domain.SyncStatus(m.SyncStatus),
		CreatedAt:  m.CreatedAt.Time(),
		UpdatedAt:  m.UpdatedAt.Time(),
	}
}

// LabelCreate 创建标签，名称同用户下不区分大小写唯一
func (d *Dao) LabelCreate(ctx context.Context, label *domain.Label) (*domain.Label, error) {
	if strings.TrimSpace(label.Name) == "" {
		return nil, xerrors.NewAppError(code.ErrorValidation, fmt.Errorf("label name is empty"))
	}

	var count int64
	err := d.db.WithContext(ctx).Model(&model.Label{}).
		Where("uid = ? AND name_lower = ?", label.UID, strings.ToLower(label.Name)).
		Count(&count).Error
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, xerrors.NewAppError(code.ErrorValidation,
			fmt.Errorf("label name %q already exists", label.Name))
	}

	if label.ID == "" {
		label.ID = uuid.NewString()
	}
	now := time.Now()
	if label.CreatedAt.IsZero() {
		label.CreatedAt = now
	}
	label.UpdatedAt = now
	label.SyncStatus = domain.SyncStatusPending

	if err := d.db.WithContext(ctx).Create(labelToModel(label)).Error; err != nil {
		return nil, err
	}
	return label, nil
}

// LabelRename 修改标签名称
func (d *Dao) LabelRename(ctx context.Context, id string, uid int64, name string) (*domain.Label, error) {
	if strings.TrimSpace(name) == "" {
		return nil, xerrors.NewAppError(code.ErrorValidation, fmt.Errorf("label name is empty"))
	}

	var m model.Label
	err := d.db.WithContext(ctx).
		Where("id = ? AND uid = ?", id, uid).
		First(&m).Error
	if err != nil {
		return nil, wrapNotFound(err)
	}

	var count int64
	err = d.db.WithContext(ctx).Model(&model.Label{}).
		Where("uid = ? AND name_lower = ? AND id <> ?", uid, strings.ToLower(name), id).
		Count(&count).Error
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, xerrors.NewAppError(code.ErrorValidation,
			fmt.Errorf("label name %q already exists", name))
	}

	label := labelToDomain(&m)
	label.Name = name
	label.UpdatedAt = nextStamp(label.UpdatedAt)
	label.SyncStatus = domain.SyncStatusPending

	err = d.db.WithContext(ctx).Model(&model.Label{}).
		Where("id = ? AND uid = ?", id, uid).
		Updates(map[string]any{
			"name":        name,
			"name_lower":  strings.ToLower(name),
			"updated_at":  timex.Time(label.UpdatedAt),
			"sync_status": string(domain.SyncStatusPending),
		}).Error
	if err != nil {
		return nil, err
	}
	return label, nil
}

// LabelGet 根据ID获取标签
func (d *Dao) LabelGet(ctx context.Context, id string, uid int64) (*domain.Label, error) {
	var m model.Label
	err := d.db.WithContext(ctx).
		Where("id = ? AND uid = ?", id, uid).
		First(&m).Error
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return labelToDomain(&m), nil
}

// LabelGetByName 根据名称获取标签，不区分大小写
func (d *Dao) LabelGetByName(ctx context.Context, name string, uid int64) (*domain.Label, error) {
	var m model.Label
	err := d.db.WithContext(ctx).
		Where("uid = ? AND name_lower = ?", uid, strings.ToLower(name)).
		First(&m).Error
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return labelToDomain(&m), nil
}

// LabelList 获取用户的全部标签
func (d *Dao) LabelList(ctx context.Context, uid int64) ([]*domain.Label, error) {
	var rows []*model.Label
	err := d.db.WithContext(ctx).
		Where("uid = ?", uid).
		Order("name_lower ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	labels := make([]*domain.Label, 0, len(rows))
	for _, row := range rows {
		labels = append(labels, labelToDomain(row))
	}
	return labels, nil
}

// LabelDelete 删除标签并级联删除全部关联
func (d *Dao) LabelDelete(ctx context.Context, id string, uid int64) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND uid = ?", id, uid).Delete(&model.Label{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return xerrors.NewAppError(code.ErrorNotFound, gorm.ErrRecordNotFound)
		}
		return tx.Where("label_id = ?", id).Delete(&model.NoteLabel{}).Error
	})
}

// LabelMarkSynced 对账完成后翻转同步状态
func (d *Dao) LabelMarkSynced(ctx context.Context, id string, uid int64) error {
	result := d.db.WithContext(ctx).Model(&model.Label{}).
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

// LabelMirror 远端权威标签原样落库
func (d *Dao) LabelMirror(ctx context.Context, label *domain.Label) error {
	label.SyncStatus = domain.SyncStatusSynced
	return d.db.WithContext(ctx).Save(labelToModel(label)).Error
}
