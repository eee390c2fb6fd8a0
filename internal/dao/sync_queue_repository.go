package dao

import (
	"context"
	"time"

	"github.com/haierkeys/fast-note-offline-client/internal/domain"
	"github.com/haierkeys/fast-note-offline-client/internal/model"
	"github.com/haierkeys/fast-note-offline-client/pkg/code"
	xerrors "github.com/haierkeys/fast-note-offline-client/pkg/errors"
	"github.com/haierkeys/fast-note-offline-client/pkg/timex"

	"gorm.io/gorm"
)

func syncQueueToDomain(m *model.SyncQueue) *domain.SyncQueueEntry {
	return &domain.SyncQueueEntry{
		ID:        m.ID,
		TableName: m.TargetTable,
		RecordID:  m.RecordID,
		Operation: domain.Operation(m.Operation),
		Permanent: m.Permanent,
		Payload:   []byte(m.Payload),
		Retries:   m.Retries,
		CreatedAt: m.CreatedAt.Time(),
	}
}

// SyncQueueAppend 追加账本条目，retries 从 0 开始
func (d *Dao) SyncQueueAppend(ctx context.Context, entry *domain.SyncQueueEntry) (*domain.SyncQueueEntry, error) {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	m := &model.SyncQueue{
		TargetTable: entry.TableName,
		RecordID:  entry.RecordID,
		Operation: string(entry.Operation),
		Permanent: entry.Permanent,
		Payload:   string(entry.Payload),
		Retries:   0,
		CreatedAt: timex.Time(entry.CreatedAt),
	}
	if err := d.db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return syncQueueToDomain(m), nil
}

// SyncQueueListAll 按创建顺序返回当前全部条目
// 返回值是调用时刻的快照，之后追加的条目不在其中
func (d *Dao) SyncQueueListAll(ctx context.Context) ([]*domain.SyncQueueEntry, error) {
	var rows []*model.SyncQueue
	err := d.db.WithContext(ctx).
		Order("created_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	entries := make([]*domain.SyncQueueEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, syncQueueToDomain(row))
	}
	return entries, nil
}

// SyncQueueDelete 删除条目
func (d *Dao) SyncQueueDelete(ctx context.Context, id int64) error {
	result := d.db.WithContext(ctx).Where("id = ?", id).Delete(&model.SyncQueue{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return xerrors.NewAppError(code.ErrorNotFound, gorm.ErrRecordNotFound)
	}
	return nil
}

// SyncQueueIncrRetries 递增重试计数并返回新值
func (d *Dao) SyncQueueIncrRetries(ctx context.Context, id int64) (int, error) {
	result := d.db.WithContext(ctx).Model(&model.SyncQueue{}).
		Where("id = ?", id).
		UpdateColumn("retries", gorm.Expr("retries + 1"))
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, xerrors.NewAppError(code.ErrorNotFound, gorm.ErrRecordNotFound)
	}
	var m model.SyncQueue
	if err := d.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return 0, wrapNotFound(err)
	}
	return m.Retries, nil
}

// SyncQueueCount 返回条目总数
func (d *Dao) SyncQueueCount(ctx context.Context) (int64, error) {
	var count int64
	err := d.db.WithContext(ctx).Model(&model.SyncQueue{}).Count(&count).Error
	return count, err
}

// SyncQueueHasPendingFor 判断指定记录是否还有其他未消费条目
// excludeID 为当前正在消费的条目，不计入
func (d *Dao) SyncQueueHasPendingFor(ctx context.Context, table, recordID string, excludeID int64) (bool, error) {
	var count int64
	err := d.db.WithContext(ctx).Model(&model.SyncQueue{}).
		Where("table_name = ? AND record_id = ? AND id <> ?", table, recordID, excludeID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// SyncQueueDeleteOlderThan 清理陈旧条目，返回删除数
func (d *Dao) SyncQueueDeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := d.db.WithContext(ctx).
		Where("created_at < ?", timex.Time(cutoff)).
		Delete(&model.SyncQueue{})
	return result.RowsAffected, result.Error
}
